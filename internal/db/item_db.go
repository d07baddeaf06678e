package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/models"
)

const itemColumns = `id, seller_id, title, type, description, location, price, images, favourited_by, created_at, updated_at`

// ItemPatch содержит изменяемые поля товара. Nil-поле означает
// "не менять". Продавец не меняется.
type ItemPatch struct {
	Title       *string
	Type        *string
	Description *string
	Location    *string
	Price       *float64
	Images      *[]string
}

// CreateItem сохраняет новый товар с пустыми офферами и избранным.
// Продавец должен существовать на момент создания.
func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	var sellerExists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, item.SellerID).Scan(&sellerExists)
	if err != nil {
		return fmt.Errorf("ошибка при проверке продавца: %w", err)
	}
	if !sellerExists {
		return apperror.NotFound("Пользователь", item.SellerID.String())
	}

	item.ID = uuid.New()
	if item.Images == nil {
		item.Images = []string{}
	}
	item.FavouritedBy = []uuid.UUID{}
	item.Offers = []models.Offer{}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO items (id, seller_id, title, type, description, location, price, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, item.ID, item.SellerID, item.Title, item.Type, item.Description,
		item.Location, item.Price, item.Images).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании товара: %w", err)
	}

	item.Seller = db.getPublicUser(ctx, item.SellerID)
	return nil
}

// GetItem возвращает товар с продавцом и офферами
func (db *DB) GetItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	item, err := db.scanItem(db.Pool.QueryRow(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = $1
	`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Товар", itemID.String())
		}
		return nil, fmt.Errorf("ошибка при получении товара: %w", err)
	}

	item.Seller = db.getPublicUser(ctx, item.SellerID)

	offers, err := db.loadOffers(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	item.Offers = offers

	return item, nil
}

// GetItemSellerID возвращает продавца товара для проверок владения
func (db *DB) GetItemSellerID(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error) {
	var sellerID uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		SELECT seller_id FROM items WHERE id = $1
	`, itemID).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperror.NotFound("Товар", itemID.String())
		}
		return uuid.Nil, fmt.Errorf("ошибка при получении товара: %w", err)
	}
	return sellerID, nil
}

// ListItems возвращает каталог товаров с продавцами и офферами.
// Если sellerID задан, каталог ограничивается этим продавцом.
func (db *DB) ListItems(ctx context.Context, sellerID *uuid.UUID) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`
	args := []interface{}{}

	if sellerID != nil {
		query = `SELECT ` + itemColumns + ` FROM items WHERE seller_id = $1 ORDER BY created_at DESC`
		args = append(args, *sellerID)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе товаров: %w", err)
	}
	defer rows.Close()

	items, err := db.collectItems(ctx, rows)
	if err != nil {
		return nil, err
	}

	for i := range items {
		offers, err := db.loadOffers(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Offers = offers
	}

	return items, nil
}

// ListItemsWithFavoriteFlag возвращает каталог, где каждый товар помечен
// признаком избранного для данного пользователя. Признак вычисляется
// по таблице favorites и никогда не сохраняется.
func (db *DB) ListItemsWithFavoriteFlag(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	items, err := db.ListItems(ctx, nil)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT item_id FROM favorites WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе избранного: %w", err)
	}
	defer rows.Close()

	favorited := make(map[uuid.UUID]bool)
	for rows.Next() {
		var itemID uuid.UUID
		if err := rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании избранного: %w", err)
		}
		favorited[itemID] = true
	}

	for i := range items {
		isFavorited := favorited[items[i].ID]
		items[i].IsFavorited = &isFavorited
	}

	return items, nil
}

// UpdateItem применяет частичные изменения товара: пропущенные поля
// сохраняют прежние значения. Возвращает товар после обновления.
func (db *DB) UpdateItem(ctx context.Context, itemID uuid.UUID, patch ItemPatch) (*models.Item, error) {
	item, err := db.scanItem(db.Pool.QueryRow(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = $1
	`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Товар", itemID.String())
		}
		return nil, fmt.Errorf("ошибка при получении товара: %w", err)
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Type != nil {
		item.Type = *patch.Type
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Images != nil {
		item.Images = *patch.Images
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	err = db.Pool.QueryRow(ctx, `
		UPDATE items
		SET title = $1, type = $2, description = $3, location = $4, price = $5, images = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, item.Title, item.Type, item.Description, item.Location, item.Price,
		item.Images, itemID).Scan(&item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении товара: %w", err)
	}

	item.Seller = db.getPublicUser(ctx, item.SellerID)

	offers, err := db.loadOffers(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	item.Offers = offers

	return item, nil
}

// DeleteItem удаляет товар вместе с офферами и записями избранного.
// Каскадное удаление избранного обязательно: без него таблица favorites
// разойдется с каталогом.
func (db *DB) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM favorites WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("ошибка при удалении избранного: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM offers WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("ошибка при удалении офферов: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении товара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Товар", itemID.String())
	}

	return tx.Commit(ctx)
}

// loadOffers загружает офферы товара в порядке создания
func (db *DB) loadOffers(ctx context.Context, itemID uuid.UUID) ([]models.Offer, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT o.id, o.item_id, o.buyer_id, o.amount, o.status, o.created_at, u.username
		FROM offers o
		LEFT JOIN users u ON o.buyer_id = u.id
		WHERE o.item_id = $1
		ORDER BY o.created_at ASC, o.id ASC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе офферов: %w", err)
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		var offer models.Offer
		var username pgtype.Text

		if err := rows.Scan(
			&offer.ID, &offer.ItemID, &offer.BuyerID,
			&offer.Amount, &offer.Status, &offer.CreatedAt, &username,
		); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании оффера: %w", err)
		}

		offer.Buyer = &models.User{ID: offer.BuyerID}
		if username.Valid {
			offer.Buyer.Username = username.String
		}

		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

// scanItem читает строку товара с учетом nullable полей
func (db *DB) scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	var description, location pgtype.Text

	err := row.Scan(
		&item.ID, &item.SellerID, &item.Title, &item.Type,
		&description, &location, &item.Price,
		&item.Images, &item.FavouritedBy,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = description.String
	}
	if location.Valid {
		item.Location = location.String
	}

	return &item, nil
}

// collectItems читает все строки товаров и подставляет продавцов
func (db *DB) collectItems(ctx context.Context, rows pgx.Rows) ([]models.Item, error) {
	items := []models.Item{}
	for rows.Next() {
		item, err := db.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании товара: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении товаров: %w", err)
	}

	for i := range items {
		items[i].Seller = db.getPublicUser(ctx, items[i].SellerID)
	}

	return items, nil
}
