package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/resale-api/internal/middleware"
)

// SetupRoutes настраивает маршруты аутентификации и профилей
func (s *AuthService) SetupRoutes(app *fiber.App) {
	// Публичные маршруты
	app.Post("/api/auth/sign-up", s.SignUp)
	app.Post("/api/auth/sign-in", s.SignIn)

	// Профиль текущего пользователя
	app.Get("/api/profile", s.Profile, middleware.AuthMiddleware(s.jwtService))

	// Публичный профиль по имени пользователя
	app.Get("/api/users/:username", s.PublicProfile)

	// Управление своим аккаунтом. Middleware вешаем на каждый маршрут,
	// чтобы не закрыть публичный профиль выше.
	app.Put("/api/users/:userId", s.UpdateUser, middleware.AuthMiddleware(s.jwtService))
	app.Delete("/api/users/:userId", s.DeleteUser, middleware.AuthMiddleware(s.jwtService))
}
