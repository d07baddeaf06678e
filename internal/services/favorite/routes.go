package favorite

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/resale-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API избранного
func (s *FavoriteService) SetupRoutes(app *fiber.App) {
	// Группа для API избранного
	api := app.Group("/api/favorites")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Список избранных товаров
	api.Get("/", s.GetFavorites)

	// Добавление товара в избранное
	api.Post("/", s.AddToFavorites)

	// Переключение избранного
	api.Post("/:itemId/toggle", s.ToggleFavorite)

	// Удаление товара из избранного
	api.Delete("/:itemId", s.RemoveFromFavorites)

	// Проверка, находится ли товар в избранном
	api.Get("/:itemId/check", s.CheckFavorite)
}
