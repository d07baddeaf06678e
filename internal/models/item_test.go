package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Тест закрытого списка категорий товаров
func TestIsValidItemType(t *testing.T) {
	assert.True(t, IsValidItemType("handbag"))
	assert.True(t, IsValidItemType("coffee table"))
	assert.True(t, IsValidItemType("VR headset"))

	// Значение из списка с опечаткой в данных, но валидное
	assert.True(t, IsValidItemType("latop"))

	assert.False(t, IsValidItemType("laptop"))
	assert.False(t, IsValidItemType(""))
	assert.False(t, IsValidItemType("Handbag"))
	assert.False(t, IsValidItemType("spaceship"))
}

// Тест, что ItemTypes возвращает копию, а не внутренний срез
func TestItemTypesReturnsCopy(t *testing.T) {
	types := ItemTypes()
	assert.NotEmpty(t, types)

	original := types[0]
	types[0] = "mutated"

	fresh := ItemTypes()
	assert.Equal(t, original, fresh[0])
}

// Тест границы минимальной цены
func TestMinItemPrice(t *testing.T) {
	assert.Equal(t, 1, MinItemPrice)
}
