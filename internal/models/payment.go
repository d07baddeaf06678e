package models

import (
	"math"

	"github.com/google/uuid"
)

// CartItem представляет позицию корзины в запросе оплаты
type CartItem struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title,omitempty"`
	Price float64   `json:"price"`
}

// CartTotalCents считает сумму корзины в минорных единицах валюты.
// Сумма считается на сервере и сверяется с суммой клиента, расхождение —
// ошибка валидации, а не повод молча исправить.
func CartTotalCents(items []CartItem) int64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return int64(math.Round(total * 100))
}
