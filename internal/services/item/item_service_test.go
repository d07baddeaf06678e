package item

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/resale-api/internal/apperror"
)

// Тест проверки тела частичного обновления: nil-поля не проверяются
func TestItemPatchRequestValidateEmpty(t *testing.T) {
	req := itemPatchRequest{}
	assert.NoError(t, req.validate())
}

// Тест, что одно валидное поле проходит проверку
func TestItemPatchRequestValidateSingleField(t *testing.T) {
	title := "Сумка из кожи"
	req := itemPatchRequest{Title: &title}
	assert.NoError(t, req.validate())
}

// Тест, что присланное пустое название отклоняется
func TestItemPatchRequestValidateBlankTitle(t *testing.T) {
	title := "   "
	req := itemPatchRequest{Title: &title}
	assert.True(t, errors.Is(req.validate(), apperror.ErrValidation))
}

// Тест, что присланная недопустимая категория отклоняется
func TestItemPatchRequestValidateBadType(t *testing.T) {
	badType := "spaceship"
	req := itemPatchRequest{Type: &badType}
	assert.True(t, errors.Is(req.validate(), apperror.ErrValidation))
}

// Тест, что присланная цена ниже минимума отклоняется
func TestItemPatchRequestValidateLowPrice(t *testing.T) {
	price := 0.5
	req := itemPatchRequest{Price: &price}
	assert.True(t, errors.Is(req.validate(), apperror.ErrValidation))
}

// Тест обработчика: невалидное поле дает 400 до обращения к базе
func TestUpdateItemHandlerRejectsBadPatch(t *testing.T) {
	service := &ItemService{}

	app := fiber.New()
	app.Put("/api/items/:itemId", service.UpdateItem, func(c fiber.Ctx) error {
		c.Locals("userID", uuid.New().String())
		return c.Next()
	})

	req := httptest.NewRequest("PUT", "/api/items/"+uuid.New().String(),
		strings.NewReader(`{"type": "spaceship"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
