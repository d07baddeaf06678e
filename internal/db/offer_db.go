package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/models"
)

// CreateOffer добавляет новый оффер к товару со статусом pending.
// Продавец не может сделать предложение по своему товару.
func (db *DB) CreateOffer(ctx context.Context, itemID, buyerID uuid.UUID, amount float64) (*models.Offer, error) {
	sellerID, err := db.GetItemSellerID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if sellerID == buyerID {
		return nil, apperror.ValidationFailed("buyer", "Нельзя сделать предложение по собственному товару")
	}

	offer := &models.Offer{
		ID:      uuid.New(),
		ItemID:  itemID,
		BuyerID: buyerID,
		Amount:  amount,
		Status:  models.OfferStatusPending,
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO offers (id, item_id, buyer_id, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, offer.ID, itemID, buyerID, amount, offer.Status).Scan(&offer.CreatedAt)
	if err != nil {
		// Товар мог быть удален между проверкой продавца и вставкой,
		// внешний ключ item_id превращает эту гонку в NotFound
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperror.NotFound("Товар", itemID.String())
		}
		return nil, fmt.Errorf("ошибка при создании оффера: %w", err)
	}

	offer.Buyer = db.getPublicUser(ctx, buyerID)
	return offer, nil
}

// DecideOffer переводит оффер из pending в accepted или rejected.
// Решение принимает только продавец товара; решенный оффер менять нельзя.
// Принятие одного оффера не отклоняет остальные офферы товара.
func (db *DB) DecideOffer(ctx context.Context, itemID, offerID, callerID uuid.UUID, decision string) (*models.Offer, error) {
	sellerID, err := db.GetItemSellerID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if sellerID != callerID {
		return nil, apperror.Forbidden("Управлять офферами может только продавец товара")
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку оффера: гонка двух решений по одному офферу
	// разрешается последовательно, второе получит Conflict.
	offer := &models.Offer{ID: offerID, ItemID: itemID}
	err = tx.QueryRow(ctx, `
		SELECT buyer_id, amount, status, created_at
		FROM offers
		WHERE id = $1 AND item_id = $2
		FOR UPDATE
	`, offerID, itemID).Scan(&offer.BuyerID, &offer.Amount, &offer.Status, &offer.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Оффер", offerID.String())
		}
		return nil, fmt.Errorf("ошибка при получении оффера: %w", err)
	}

	if offer.Status != models.OfferStatusPending {
		return nil, apperror.Conflict("Оффер уже рассмотрен, изменить решение нельзя")
	}

	if _, err = tx.Exec(ctx, `
		UPDATE offers SET status = $1 WHERE id = $2
	`, decision, offerID); err != nil {
		return nil, fmt.Errorf("ошибка при обновлении статуса оффера: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	offer.Status = decision
	offer.Buyer = db.getPublicUser(ctx, offer.BuyerID)
	return offer, nil
}

// ListOffersByBuyer возвращает все офферы покупателя с контекстом товара,
// новые первыми. При равном времени создания порядок стабилен по ID.
func (db *DB) ListOffersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.BuyerOffer, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT o.id, o.amount, o.status, o.created_at,
		       i.id, i.title, i.price, i.images, i.seller_id, u.username
		FROM offers o
		JOIN items i ON o.item_id = i.id
		LEFT JOIN users u ON i.seller_id = u.id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC, o.id DESC
	`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе офферов покупателя: %w", err)
	}
	defer rows.Close()

	offers := []models.BuyerOffer{}
	for rows.Next() {
		var offer models.BuyerOffer
		var sellerID uuid.UUID
		var username pgtype.Text

		if err := rows.Scan(
			&offer.ID, &offer.Amount, &offer.Status, &offer.CreatedAt,
			&offer.Item.ID, &offer.Item.Title, &offer.Item.Price,
			&offer.Item.Images, &sellerID, &username,
		); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании оффера: %w", err)
		}

		offer.Item.Seller = &models.User{ID: sellerID}
		if username.Valid {
			offer.Item.Seller.Username = username.String
		}

		offers = append(offers, offer)
	}

	return offers, rows.Err()
}
