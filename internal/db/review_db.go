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

// CreateReview сохраняет отзыв. На пару (rater, target) допускается
// не более одного отзыва — дубликат возвращает конфликт.
func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, review.TargetUserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка при проверке пользователя: %w", err)
	}
	if !exists {
		return apperror.NotFound("Пользователь", review.TargetUserID.String())
	}

	review.ID = uuid.New()
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO reviews (id, rater_id, target_user_id, rating, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, review.ID, review.RaterID, review.TargetUserID, review.Rating,
		review.Description).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.Conflict("Вы уже оставили отзыв этому пользователю")
		}
		return fmt.Errorf("ошибка при создании отзыва: %w", err)
	}

	review.Rater = db.getPublicUser(ctx, review.RaterID)
	return nil
}

// GetReview получает отзыв по ID
func (db *DB) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	var description pgtype.Text

	err := db.Pool.QueryRow(ctx, `
		SELECT id, rater_id, target_user_id, rating, description, created_at, updated_at
		FROM reviews WHERE id = $1
	`, reviewID).Scan(
		&review.ID, &review.RaterID, &review.TargetUserID, &review.Rating,
		&description, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Отзыв", reviewID.String())
		}
		return nil, fmt.Errorf("ошибка при получении отзыва: %w", err)
	}

	if description.Valid {
		review.Description = description.String
	}

	return &review, nil
}

// ListReviewsForUser возвращает отзывы о пользователе, новые первыми
func (db *DB) ListReviewsForUser(ctx context.Context, targetUserID uuid.UUID) ([]models.Review, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.id, r.rater_id, r.target_user_id, r.rating, r.description,
		       r.created_at, r.updated_at, u.username
		FROM reviews r
		LEFT JOIN users u ON r.rater_id = u.id
		WHERE r.target_user_id = $1
		ORDER BY r.created_at DESC
	`, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе отзывов: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		var description, username pgtype.Text

		if err := rows.Scan(
			&review.ID, &review.RaterID, &review.TargetUserID, &review.Rating,
			&description, &review.CreatedAt, &review.UpdatedAt, &username,
		); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании отзыва: %w", err)
		}

		if description.Valid {
			review.Description = description.String
		}
		review.Rater = &models.User{ID: review.RaterID}
		if username.Valid {
			review.Rater.Username = username.String
		}

		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

// AverageRating возвращает средний рейтинг пользователя.
// Отсутствие отзывов — не ошибка: среднее 0 при нуле отзывов.
func (db *DB) AverageRating(ctx context.Context, targetUserID uuid.UUID) (*models.RatingSummary, error) {
	summary := &models.RatingSummary{}
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE target_user_id = $1
	`, targetUserID).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчете рейтинга: %w", err)
	}
	return summary, nil
}

// UpdateReview сохраняет изменения оценки и текста отзыва
func (db *DB) UpdateReview(ctx context.Context, review *models.Review) error {
	err := db.Pool.QueryRow(ctx, `
		UPDATE reviews
		SET rating = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, review.Rating, review.Description, review.ID).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("Отзыв", review.ID.String())
		}
		return fmt.Errorf("ошибка при обновлении отзыва: %w", err)
	}
	return nil
}

// DeleteReview удаляет отзыв
func (db *DB) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении отзыва: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Отзыв", reviewID.String())
	}
	return nil
}
