package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/resale-api/internal/apperror"
)

// favoriteState читает оба представления избранного: строку в favorites
// и вхождение в кеш favourited_by на товаре
func favoriteState(t *testing.T, database *DB, userID, itemID uuid.UUID) (bool, bool) {
	t.Helper()

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	var inTable bool
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)
	`, userID, itemID).Scan(&inTable))

	var inCache bool
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT favourited_by @> ARRAY[$1]::uuid[] FROM items WHERE id = $2
	`, userID, itemID).Scan(&inCache))

	return inTable, inCache
}

// Тест, что двойное переключение возвращает исходное состояние
func TestToggleFavoriteInvolution(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	on, err := database.ToggleFavorite(ctx, buyer.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := database.ToggleFavorite(ctx, buyer.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, off)

	inTable, inCache := favoriteState(t, database, buyer.ID, item.ID)
	assert.False(t, inTable)
	assert.False(t, inCache)
}

// Тест инварианта двойной записи: таблица и кеш всегда согласованы
func TestFavoriteDualWriteAgreement(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.ToggleFavorite(ctx, buyer.ID, item.ID)
	require.NoError(t, err)

	inTable, inCache := favoriteState(t, database, buyer.ID, item.ID)
	assert.True(t, inTable)
	assert.True(t, inCache)

	require.NoError(t, database.RemoveFavorite(ctx, buyer.ID, item.ID))

	inTable, inCache = favoriteState(t, database, buyer.ID, item.ID)
	assert.False(t, inTable)
	assert.False(t, inCache)
}

// Тест, что повторное добавление в избранное дает конфликт
func TestAddFavoriteDuplicate(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	require.NoError(t, database.AddFavorite(ctx, buyer.ID, item.ID))

	err := database.AddFavorite(ctx, buyer.ID, item.ID)
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	// Кеш не задвоился
	var cacheSize int
	require.NoError(t, database.Pool.QueryRow(ctx, `
		SELECT cardinality(favourited_by) FROM items WHERE id = $1
	`, item.ID).Scan(&cacheSize))
	assert.Equal(t, 1, cacheSize)
}

// Тест, что удаление отсутствующего избранного не считается ошибкой
func TestRemoveFavoriteIdempotent(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	require.NoError(t, database.RemoveFavorite(ctx, buyer.ID, item.ID))
	require.NoError(t, database.RemoveFavorite(ctx, buyer.ID, item.ID))
}

// Тест переключения избранного на несуществующем товаре
func TestToggleFavoriteMissingItem(t *testing.T) {
	database := newTestDB(t)
	buyer := createTestUser(t, database, "buyer")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.ToggleFavorite(ctx, buyer.ID, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// Тест, что конкурентные переключения не разводят таблицу и кеш.
// Блокировка строки товара сериализует записи по одной паре.
func TestConcurrentTogglesKeepAgreement(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	item := createTestItem(t, database, seller.ID)

	const toggles = 8

	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := GetContext(context.Background())
			defer cancel()
			_, err := database.ToggleFavorite(ctx, buyer.ID, item.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	inTable, inCache := favoriteState(t, database, buyer.ID, item.ID)
	assert.Equal(t, inTable, inCache, "таблица favorites и кеш favourited_by разошлись")
}

// Тест списка избранного: помеченные товары с выставленным признаком
func TestListFavoritesForUser(t *testing.T) {
	database := newTestDB(t)
	seller := createTestUser(t, database, "seller")
	buyer := createTestUser(t, database, "buyer")
	first := createTestItem(t, database, seller.ID)
	second := createTestItem(t, database, seller.ID)

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	_, err := database.ToggleFavorite(ctx, buyer.ID, first.ID)
	require.NoError(t, err)
	_, err = database.ToggleFavorite(ctx, buyer.ID, second.ID)
	require.NoError(t, err)

	items, err := database.ListFavoritesForUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		require.NotNil(t, item.IsFavorited)
		assert.True(t, *item.IsFavorited)
	}
}
