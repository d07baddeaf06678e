package models

import (
	"time"

	"github.com/google/uuid"
)

// MinItemPrice — минимальная цена товара
const MinItemPrice = 1

// itemTypes — закрытый список категорий товаров. Значения, которых нет
// в списке, отклоняются при создании и обновлении товара.
var itemTypes = []string{
	"handbag", "shoes", "dress", "jacket", "trousers", "pants", "watch",
	"jewelry", "coat", "skirt", "suit", "shirt", "blouse", "sweater",
	"jumper", "scarf", "belt", "sunglasses", "wallet", "purse", "clutch",
	"smart watch", "smart glasses", "fitness tracker", "smart ring",
	"wireless earbuds", "noise-canceling headphones", "smartphone",
	"tablet", "latop", "smart speaker", "VR headset",
	"candle", "fragrance", "vase", "side table", "candle holder", "tray",
	"lamp", "trunk", "towel", "bathrobe", "rug", "soft furnishing",
	"coffee table",
}

var itemTypeSet = func() map[string]bool {
	set := make(map[string]bool, len(itemTypes))
	for _, t := range itemTypes {
		set[t] = true
	}
	return set
}()

// ItemTypes возвращает список допустимых категорий товаров
func ItemTypes() []string {
	types := make([]string, len(itemTypes))
	copy(types, itemTypes)
	return types
}

// IsValidItemType проверяет, что категория входит в закрытый список
func IsValidItemType(itemType string) bool {
	return itemTypeSet[itemType]
}

// Item представляет товар в системе
type Item struct {
	ID           uuid.UUID   `json:"id"`
	SellerID     uuid.UUID   `json:"seller_id"`
	Title        string      `json:"title"`
	Type         string      `json:"type"`
	Description  string      `json:"description,omitempty"`
	Location     string      `json:"location,omitempty"`
	Price        float64     `json:"price"`
	Images       []string    `json:"images"`
	FavouritedBy []uuid.UUID `json:"favourited_by"`
	Offers       []Offer     `json:"offers"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// Дополнительные поля для API
	Seller      *User `json:"seller,omitempty"`
	IsFavorited *bool `json:"is_favorited,omitempty"`
}

// ItemSummary представляет краткую информацию о товаре внутри оффера
type ItemSummary struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Price  float64   `json:"price"`
	Images []string  `json:"images"`
	Seller *User     `json:"seller,omitempty"`
}
