package models

import (
	"time"

	"github.com/google/uuid"
)

// MinOfferAmount — минимальная сумма оффера
const MinOfferAmount = 10

// Статусы оффера. Начальный статус — pending, accepted и rejected
// терминальные: решенный оффер больше не меняется.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
)

// IsValidOfferDecision проверяет, что решение по офферу допустимо
func IsValidOfferDecision(status string) bool {
	return status == OfferStatusAccepted || status == OfferStatusRejected
}

// Offer представляет предложение покупателя по товару
type Offer struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для API
	Buyer *User `json:"buyer,omitempty"`
}

// BuyerOffer представляет оффер в разрезе покупателя с контекстом товара
type BuyerOffer struct {
	ID        uuid.UUID   `json:"id"`
	Amount    float64     `json:"amount"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Item      ItemSummary `json:"item"`
}
