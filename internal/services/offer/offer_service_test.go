package offer

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp создает приложение с маршрутом создания оффера,
// подставляя userID в контекст вместо проверки токена.
// Проверка суммы выполняется до обращения к базе, поэтому
// база здесь не нужна.
func newTestApp(service *OfferService) *fiber.App {
	app := fiber.New()
	app.Post("/api/items/:itemId/offers", service.CreateOffer, func(c fiber.Ctx) error {
		c.Locals("userID", uuid.New().String())
		return c.Next()
	})
	return app
}

// Тест, что сумма ниже минимума отклоняется до обращения к базе
func TestCreateOfferAmountBelowMinimum(t *testing.T) {
	app := newTestApp(&OfferService{})

	req := httptest.NewRequest("POST", "/api/items/"+uuid.New().String()+"/offers",
		strings.NewReader(`{"amount": 9.99}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Сумма оффера должна быть не меньше 10", payload["error"])
}

// Тест, что нулевая сумма отклоняется
func TestCreateOfferZeroAmount(t *testing.T) {
	app := newTestApp(&OfferService{})

	req := httptest.NewRequest("POST", "/api/items/"+uuid.New().String()+"/offers",
		strings.NewReader(`{"amount": 0}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
