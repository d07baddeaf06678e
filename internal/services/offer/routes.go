package offer

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/resale-api/internal/middleware"
)

// SetupRoutes настраивает маршруты офферов. Маршрут /api/items/offers/...
// должен быть зарегистрирован раньше /api/items/:itemId.
func (s *OfferService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	app.Get("/api/items/offers/user/:userId", s.GetUserOffers, auth)
	app.Post("/api/items/:itemId/offers", s.CreateOffer, auth)
	app.Put("/api/items/:itemId/offers/:offerId/status", s.UpdateOfferStatus, auth)
}
