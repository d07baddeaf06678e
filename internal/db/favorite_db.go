package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/models"
)

// Инвариант избранного: запись в favorites существует тогда и только
// тогда, когда userID входит в items.favourited_by. Таблица favorites —
// источник истины, массив — кеш для чтения. Все три пути записи
// (toggle, легаси-добавление, легаси-удаление) проходят через единый
// примитив setFavorited внутри одной транзакции с блокировкой товара.

// ToggleFavorite переключает избранное и возвращает новое состояние
func (db *DB) ToggleFavorite(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var favorited bool

	err := db.withLockedItem(ctx, itemID, func(tx pgx.Tx, exists bool) error {
		favorited = !exists
		return db.setFavorited(ctx, tx, userID, itemID, favorited)
	}, userID)
	if err != nil {
		return false, err
	}

	return favorited, nil
}

// AddFavorite добавляет товар в избранное (легаси-эндпоинт).
// Повторное добавление — конфликт.
func (db *DB) AddFavorite(ctx context.Context, userID, itemID uuid.UUID) error {
	return db.withLockedItem(ctx, itemID, func(tx pgx.Tx, exists bool) error {
		if exists {
			return apperror.Conflict("Товар уже в избранном")
		}
		return db.setFavorited(ctx, tx, userID, itemID, true)
	}, userID)
}

// RemoveFavorite убирает товар из избранного (легаси-эндпоинт).
// Если товара в избранном нет, операция ничего не делает.
func (db *DB) RemoveFavorite(ctx context.Context, userID, itemID uuid.UUID) error {
	return db.withLockedItem(ctx, itemID, func(tx pgx.Tx, exists bool) error {
		if !exists {
			return nil
		}
		return db.setFavorited(ctx, tx, userID, itemID, false)
	}, userID)
}

// IsFavorited отвечает, находится ли товар в избранном пользователя.
// Чтение идет по таблице favorites, источнику истины.
func (db *DB) IsFavorited(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)
	`, userID, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке избранного: %w", err)
	}
	return exists, nil
}

// ListFavoritesForUser возвращает избранные товары пользователя
// с продавцами, новые первыми
func (db *DB) ListFavoritesForUser(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT i.id, i.seller_id, i.title, i.type, i.description, i.location,
		       i.price, i.images, i.favourited_by, i.created_at, i.updated_at
		FROM favorites f
		JOIN items i ON f.item_id = i.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе избранных товаров: %w", err)
	}
	defer rows.Close()

	items, err := db.collectItems(ctx, rows)
	if err != nil {
		return nil, err
	}

	isFavorited := true
	for i := range items {
		items[i].IsFavorited = &isFavorited
	}

	return items, nil
}

// withLockedItem выполняет fn в транзакции, предварительно заблокировав
// строку товара и определив текущее состояние избранного. Блокировка
// сериализует конкурентные переключения по одной паре (user, item).
func (db *DB) withLockedItem(ctx context.Context, itemID uuid.UUID, fn func(tx pgx.Tx, exists bool) error, userID uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM items WHERE id = $1 FOR UPDATE
	`, itemID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("Товар", itemID.String())
		}
		return fmt.Errorf("ошибка при блокировке товара: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)
	`, userID, itemID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка при проверке избранного: %w", err)
	}

	if err := fn(tx, exists); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// setFavorited выполняет обе записи избранного как одно целое:
// строку в favorites и кеш favourited_by на товаре. Вызывается только
// внутри транзакции withLockedItem.
func (db *DB) setFavorited(ctx context.Context, tx pgx.Tx, userID, itemID uuid.UUID, favorited bool) error {
	if favorited {
		_, err := tx.Exec(ctx, `
			INSERT INTO favorites (id, user_id, item_id)
			VALUES ($1, $2, $3)
		`, uuid.New(), userID, itemID)
		if err != nil {
			// Уникальный индекс (user_id, item_id) страхует от гонки
			// двух первых переключений, которую блокировка не увидела
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return apperror.Conflict("Товар уже в избранном")
			}
			return fmt.Errorf("ошибка при добавлении в избранное: %w", err)
		}

		// Семантика множества: повторное добавление не дублирует элемент
		_, err = tx.Exec(ctx, `
			UPDATE items
			SET favourited_by = array_append(favourited_by, $1)
			WHERE id = $2 AND NOT (favourited_by @> ARRAY[$1]::uuid[])
		`, userID, itemID)
		if err != nil {
			return fmt.Errorf("ошибка при обновлении кеша избранного: %w", err)
		}

		return nil
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND item_id = $2
	`, userID, itemID); err != nil {
		return fmt.Errorf("ошибка при удалении из избранного: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE items
		SET favourited_by = array_remove(favourited_by, $1)
		WHERE id = $2
	`, userID, itemID); err != nil {
		return fmt.Errorf("ошибка при обновлении кеша избранного: %w", err)
	}

	return nil
}
