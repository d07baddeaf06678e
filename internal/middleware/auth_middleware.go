package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/utils"
)

// AuthMiddleware проверяет Bearer-токен и кладет ID пользователя
// в контекст запроса. Отказы проходят через общую таксономию ошибок.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return utils.ErrorJSON(c, apperror.Unauthorized("Требуется заголовок Authorization"))
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			return utils.ErrorJSON(c, apperror.Unauthorized("Ожидается схема Bearer"))
		}

		userID, err := jwtService.ExtractUserID(tokenString)
		if err != nil {
			return utils.ErrorJSON(c, apperror.Unauthorized("Недействительный или истекший токен"))
		}

		if _, err := uuid.Parse(userID); err != nil {
			return utils.ErrorJSON(c, apperror.Unauthorized("Недействительный токен"))
		}

		c.Locals("userID", userID)

		return c.Next()
	}
}
