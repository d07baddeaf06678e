package models

import (
	"time"

	"github.com/google/uuid"
)

// Границы оценки в отзыве
const (
	MinRating = 1
	MaxRating = 5
)

// IsValidRating проверяет, что оценка входит в допустимый диапазон
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Review представляет отзыв одного пользователя о другом.
// На пару (rater, target) допускается не более одного отзыва.
type Review struct {
	ID           uuid.UUID `json:"id"`
	RaterID      uuid.UUID `json:"rater_id"`
	TargetUserID uuid.UUID `json:"target_user_id"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Rater *User `json:"rater,omitempty"`
}

// RatingSummary представляет агрегированный рейтинг пользователя
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
