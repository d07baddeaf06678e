package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Тест пересчета суммы корзины в минорные единицы
func TestCartTotalCents(t *testing.T) {
	assert.Equal(t, int64(0), CartTotalCents(nil))
	assert.Equal(t, int64(0), CartTotalCents([]CartItem{}))

	items := []CartItem{
		{Price: 10},
		{Price: 25.50},
	}
	assert.Equal(t, int64(3550), CartTotalCents(items))
}

// Тест округления: сумма в float не должна терять центы
func TestCartTotalCentsRounding(t *testing.T) {
	// 0.1 + 0.2 в float64 дает 0.30000000000000004
	items := []CartItem{
		{Price: 0.1},
		{Price: 0.2},
	}
	assert.Equal(t, int64(30), CartTotalCents(items))

	items = []CartItem{
		{Price: 19.99},
		{Price: 0.01},
	}
	assert.Equal(t, int64(2000), CartTotalCents(items))
}
