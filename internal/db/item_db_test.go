package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/models"
)

// Тест получения несуществующего товара
func TestGetItemNotFound(t *testing.T) {
	database := newTestDB(t)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.GetItem(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// Тест частичного обновления: пропущенные поля не затираются
func TestUpdateItemPartialPatch(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	item := &models.Item{
		SellerID:    seller.ID,
		Title:       "Кожаная сумка",
		Type:        "handbag",
		Description: "Почти новая",
		Location:    "Берлин",
		Price:       50,
		Images:      []string{"https://example.com/bag.jpg"},
	}
	require.NoError(t, database.CreateItem(ctx, item))

	title := "Сумка из кожи"
	updated, err := database.UpdateItem(ctx, item.ID, ItemPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Сумка из кожи", updated.Title)
	assert.Equal(t, "Почти новая", updated.Description)
	assert.Equal(t, "Берлин", updated.Location)
	assert.Equal(t, "handbag", updated.Type)
	assert.Equal(t, 50.0, updated.Price)
	assert.Equal(t, []string{"https://example.com/bag.jpg"}, updated.Images)
}

// Тест обновления нескольких полей за раз
func TestUpdateItemMultipleFields(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	price := 75.0
	images := []string{"https://example.com/new.jpg"}
	updated, err := database.UpdateItem(ctx, item.ID, ItemPatch{Price: &price, Images: &images})
	require.NoError(t, err)

	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, images, updated.Images)
	assert.Equal(t, item.Title, updated.Title)
}

// Тест обновления несуществующего товара
func TestUpdateItemNotFound(t *testing.T) {
	database := newTestDB(t)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	title := "Новое название"
	_, err := database.UpdateItem(ctx, uuid.New(), ItemPatch{Title: &title})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// Тест каскадного удаления: товар уходит вместе с офферами и избранным
func TestDeleteItemCascade(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.CreateOffer(ctx, item.ID, buyer.ID, 20)
	require.NoError(t, err)
	_, err = database.ToggleFavorite(ctx, buyer.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, database.DeleteItem(ctx, item.ID))

	_, err = database.GetItem(ctx, item.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	var offers int
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM offers WHERE item_id = $1
	`, item.ID).Scan(&offers))
	assert.Equal(t, 0, offers)

	var favorites int
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM favorites WHERE item_id = $1
	`, item.ID).Scan(&favorites))
	assert.Equal(t, 0, favorites)
}

// Тест каталога с признаком избранного для пользователя
func TestListItemsWithFavoriteFlag(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	liked := createTestItem(t, database, seller.ID)
	other := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.ToggleFavorite(ctx, buyer.ID, liked.ID)
	require.NoError(t, err)

	items, err := database.ListItemsWithFavoriteFlag(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		require.NotNil(t, item.IsFavorited, "признак избранного должен быть выставлен у каждого товара")
		switch item.ID {
		case liked.ID:
			assert.True(t, *item.IsFavorited)
		case other.ID:
			assert.False(t, *item.IsFavorited)
		}
	}
}

// Тест удаления пользователя: его избранное уходит вместе с кешем
func TestDeleteUserCleansFavorites(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.ToggleFavorite(ctx, buyer.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, database.DeleteUser(ctx, buyer.ID))

	var inCache bool
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT favourited_by @> ARRAY[$1]::uuid[] FROM items WHERE id = $2
	`, buyer.ID, item.ID).Scan(&inCache))
	assert.False(t, inCache)

	var favorites int
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM favorites WHERE user_id = $1
	`, buyer.ID).Scan(&favorites))
	assert.Equal(t, 0, favorites)
}
