package payment

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты оплаты
func (s *PaymentService) SetupRoutes(app *fiber.App) {
	app.Post("/api/payments/purchase-intent", s.CreatePurchaseIntent)
}
