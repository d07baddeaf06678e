package review

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/resale-api/internal/middleware"
)

// SetupRoutes настраивает маршруты отзывов
func (s *ReviewService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	// Чтение отзывов и рейтинга публично
	app.Get("/api/users/:userId/reviews", s.GetUserReviews)
	app.Get("/api/users/:userId/rating", s.GetUserRating)

	// Создание и управление отзывами
	app.Post("/api/users/:userId/reviews", s.CreateReview, auth)
	app.Put("/api/users/:userId/reviews/:reviewId", s.UpdateReview, auth)
	app.Delete("/api/users/:userId/reviews/:reviewId", s.DeleteReview, auth)
}
