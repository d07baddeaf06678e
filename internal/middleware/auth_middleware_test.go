package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/resale-api/internal/utils"
)

// newTestApp создает приложение с защищенным маршрутом, возвращающим
// userID из контекста
func newTestApp(jwtService *utils.JWTService) *fiber.App {
	app := fiber.New()
	app.Get("/protected", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	}, AuthMiddleware(jwtService))
	return app
}

// Тест, что запрос без заголовка Authorization отклоняется
func TestAuthMiddlewareMissingHeader(t *testing.T) {
	app := newTestApp(utils.NewJWTService("test-secret"))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Требуется заголовок Authorization", payload["error"])
}

// Тест, что заголовок без схемы Bearer отклоняется
func TestAuthMiddlewareBadScheme(t *testing.T) {
	app := newTestApp(utils.NewJWTService("test-secret"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// Тест, что поддельный токен отклоняется
func TestAuthMiddlewareInvalidToken(t *testing.T) {
	app := newTestApp(utils.NewJWTService("test-secret"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// Тест, что токен с чужим секретом отклоняется
func TestAuthMiddlewareWrongSecret(t *testing.T) {
	token, err := utils.NewJWTService("other-secret").GenerateToken(uuid.New(), "alice", "alice@example.com")
	require.NoError(t, err)

	app := newTestApp(utils.NewJWTService("test-secret"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// Тест, что валидный токен пропускается
func TestAuthMiddlewareValidToken(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret")

	token, err := jwtService.GenerateToken(uuid.New(), "alice", "alice@example.com")
	require.NoError(t, err)

	app := newTestApp(jwtService)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
