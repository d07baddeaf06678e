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

// Тест создания отзыва и запрета дубликата от того же автора
func TestCreateReviewDuplicate(t *testing.T) {
	database := newTestDB(t)
	rater := createTestUser(t, database, "rater")
	target := createTestUser(t, database, "target")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	review := &models.Review{
		RaterID:      rater.ID,
		TargetUserID: target.ID,
		Rating:       5,
		Description:  "Отличный продавец",
	}
	require.NoError(t, database.CreateReview(ctx, review))
	require.NotNil(t, review.Rater)
	assert.Equal(t, rater.Username, review.Rater.Username)

	duplicate := &models.Review{
		RaterID:      rater.ID,
		TargetUserID: target.ID,
		Rating:       1,
	}
	err := database.CreateReview(ctx, duplicate)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

// Тест отзыва о несуществующем пользователе
func TestCreateReviewMissingTarget(t *testing.T) {
	database := newTestDB(t)
	rater := createTestUser(t, database, "rater")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	review := &models.Review{
		RaterID:      rater.ID,
		TargetUserID: uuid.New(),
		Rating:       3,
	}
	err := database.CreateReview(ctx, review)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// Тест агрегата: пользователь без отзывов имеет нулевой рейтинг
func TestAverageRatingEmpty(t *testing.T) {
	database := newTestDB(t)
	target := createTestUser(t, database, "target")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	summary, err := database.AverageRating(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), summary.Average)
	assert.Equal(t, 0, summary.Count)
}

// Тест подсчета среднего рейтинга по нескольким отзывам
func TestAverageRating(t *testing.T) {
	database := newTestDB(t)
	target := createTestUser(t, database, "target")
	first := createTestUser(t, database, "first")
	second := createTestUser(t, database, "second")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	require.NoError(t, database.CreateReview(ctx, &models.Review{
		RaterID: first.ID, TargetUserID: target.ID, Rating: 4,
	}))
	require.NoError(t, database.CreateReview(ctx, &models.Review{
		RaterID: second.ID, TargetUserID: target.ID, Rating: 5,
	}))

	summary, err := database.AverageRating(ctx, target.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, summary.Average, 0.0001)
	assert.Equal(t, 2, summary.Count)
}

// Тест изменения и удаления отзыва
func TestUpdateAndDeleteReview(t *testing.T) {
	database := newTestDB(t)
	rater := createTestUser(t, database, "rater")
	target := createTestUser(t, database, "target")

	ctx, cancel := GetContext(context.Background())
	defer cancel()

	review := &models.Review{
		RaterID:      rater.ID,
		TargetUserID: target.ID,
		Rating:       2,
	}
	require.NoError(t, database.CreateReview(ctx, review))

	review.Rating = 4
	review.Description = "Передумал, товар дошел"
	require.NoError(t, database.UpdateReview(ctx, review))

	loaded, err := database.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Rating)
	assert.Equal(t, "Передумал, товар дошел", loaded.Description)

	require.NoError(t, database.DeleteReview(ctx, review.ID))

	err = database.DeleteReview(ctx, review.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
