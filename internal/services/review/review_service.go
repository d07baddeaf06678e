package review

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/db"
	"github.com/rajivgeraev/resale-api/internal/models"
	"github.com/rajivgeraev/resale-api/internal/utils"
)

// ReviewService представляет сервис отзывов о пользователях
type ReviewService struct {
	cfg        *config.Config
	db         *db.DB
	jwtService *utils.JWTService
}

// NewReviewService создает новый экземпляр ReviewService
func NewReviewService(cfg *config.Config, database *db.DB) *ReviewService {
	return &ReviewService{
		cfg:        cfg,
		db:         database,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateReview создает отзыв о пользователе. Один автор может оставить
// целевому пользователю не более одного отзыва.
func (s *ReviewService) CreateReview(c fiber.Ctx) error {
	raterUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	targetUUID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	if raterUUID == targetUUID {
		return utils.ErrorJSON(c, apperror.ValidationFailed("target_user_id", "Нельзя оставить отзыв самому себе"))
	}

	var req struct {
		Rating      int    `json:"rating"`
		Description string `json:"description"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !models.IsValidRating(req.Rating) {
		return utils.ErrorJSON(c, apperror.ValidationFailed("rating", "Оценка должна быть от 1 до 5"))
	}

	review := &models.Review{
		RaterID:      raterUUID,
		TargetUserID: targetUUID,
		Rating:       req.Rating,
		Description:  req.Description,
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	if err := s.db.CreateReview(ctx, review); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetUserReviews возвращает отзывы о пользователе вместе с агрегатом
func (s *ReviewService) GetUserReviews(c fiber.Ctx) error {
	targetUUID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	reviews, err := s.db.ListReviewsForUser(ctx, targetUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	rating, err := s.db.AverageRating(ctx, targetUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"rating":  rating,
		"total":   len(reviews),
	})
}

// GetUserRating возвращает агрегированный рейтинг пользователя.
// У пользователя без отзывов рейтинг нулевой, это не ошибка.
func (s *ReviewService) GetUserRating(c fiber.Ctx) error {
	targetUUID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	rating, err := s.db.AverageRating(ctx, targetUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(rating)
}

// UpdateReview изменяет отзыв. Разрешено только автору.
func (s *ReviewService) UpdateReview(c fiber.Ctx) error {
	raterUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	reviewUUID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID отзыва"})
	}

	var req struct {
		Rating      int    `json:"rating"`
		Description string `json:"description"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !models.IsValidRating(req.Rating) {
		return utils.ErrorJSON(c, apperror.ValidationFailed("rating", "Оценка должна быть от 1 до 5"))
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	review, err := s.db.GetReview(ctx, reviewUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	if err := utils.RequireOwner(review.RaterID, raterUUID, "Изменять отзыв может только его автор"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	review.Rating = req.Rating
	review.Description = req.Description

	if err := s.db.UpdateReview(ctx, review); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(review)
}

// DeleteReview удаляет отзыв. Разрешено только автору.
func (s *ReviewService) DeleteReview(c fiber.Ctx) error {
	raterUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	reviewUUID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID отзыва"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	review, err := s.db.GetReview(ctx, reviewUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	if err := utils.RequireOwner(review.RaterID, raterUUID, "Удалять отзыв может только его автор"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	if err := s.db.DeleteReview(ctx, reviewUUID); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Отзыв удален",
	})
}
