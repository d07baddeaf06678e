package payment

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/models"
)

// PaymentService представляет сервис оплаты через Stripe
type PaymentService struct {
	cfg *config.Config
}

// NewPaymentService создает новый экземпляр PaymentService
func NewPaymentService(cfg *config.Config) *PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentService{cfg: cfg}
}

// CreatePurchaseIntent создает платежное намерение по корзине.
// Сумма пересчитывается на сервере и сверяется с суммой клиента.
func (s *PaymentService) CreatePurchaseIntent(c fiber.Ctx) error {
	var req struct {
		Amount    int64             `json:"amount"`
		CartItems []models.CartItem `json:"cart_items"`
		Currency  string            `json:"currency"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if len(req.CartItems) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Корзина пуста"})
	}

	serverAmount := models.CartTotalCents(req.CartItems)
	if req.Amount != serverAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "Сумма клиента не совпадает с суммой сервера",
			"expected": serverAmount,
			"received": req.Amount,
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = string(stripe.CurrencyEUR)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(serverAmount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("Ошибка создания платежного намерения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Не удалось создать платежное намерение"})
	}

	return c.JSON(fiber.Map{
		"client_secret":     intent.ClientSecret,
		"payment_intent_id": intent.ID,
	})
}
