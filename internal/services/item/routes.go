package item

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/resale-api/internal/middleware"
)

// SetupRoutes настраивает маршруты каталога товаров.
// Статические пути регистрируются раньше параметрических, иначе
// fiber примет "types" за ID товара.
func (s *ItemService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	// Публичные маршруты
	app.Get("/api/items/types", s.GetItemTypes)
	app.Get("/api/items/with-favorites", s.GetItemsWithFavorites, auth)
	app.Get("/api/items/user/:userId", s.GetUserItems)
	app.Get("/api/items", s.GetItems)
	app.Get("/api/items/:itemId", s.GetItem)

	// Защищенные маршруты
	app.Post("/api/items", s.CreateItem, auth)
	app.Put("/api/items/:itemId", s.UpdateItem, auth)
	app.Delete("/api/items/:itemId", s.DeleteItem, auth)
}
