package models

import (
	"github.com/google/uuid"
)

// User представляет минимальную информацию о пользователе для API
// (продавец у товара, покупатель у оффера, автор отзыва)
type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username,omitempty"`
	ProfilePic string    `json:"profile_pic,omitempty"`
}
