package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/db"
	"github.com/rajivgeraev/resale-api/internal/utils"
)

// AuthService представляет сервис аутентификации и профилей
type AuthService struct {
	cfg        *config.Config
	db         *db.DB
	jwtService *utils.JWTService
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(cfg *config.Config, database *db.DB) *AuthService {
	return &AuthService{
		cfg:        cfg,
		db:         database,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// SignUp регистрирует нового пользователя и выдает токен
func (s *AuthService) SignUp(c fiber.Ctx) error {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя пользователя, email и пароль обязательны"})
	}

	if req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароли не совпадают"})
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	user, err := s.db.CreateUser(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		log.Printf("Ошибка создания токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// SignIn проверяет учетные данные и выдает токен.
// Идентификатором может быть имя пользователя или email.
func (s *AuthService) SignIn(c fiber.Ctx) error {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if req.Identifier == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Идентификатор и пароль обязательны"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	user, err := s.db.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		// Не раскрываем, существует ли пользователь
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверные учетные данные"})
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверные учетные данные"})
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		log.Printf("Ошибка создания токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Profile возвращает профиль текущего пользователя вместе с его товарами
func (s *AuthService) Profile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	user, err := s.db.GetUserByID(ctx, userUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	items, err := s.db.ListItems(ctx, &userUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"items": items,
	})
}

// PublicProfile возвращает публичный профиль пользователя по имени
func (s *AuthService) PublicProfile(c fiber.Ctx) error {
	username := c.Params("username")

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	items, err := s.db.ListItems(ctx, &user.ID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	rating, err := s.db.AverageRating(ctx, user.ID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"items":  items,
		"rating": rating,
	})
}

// UpdateUser изменяет профиль. Разрешено только самому пользователю,
// в ответе выдается обновленный токен.
func (s *AuthService) UpdateUser(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	targetID := c.Params("userId")

	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	if err := utils.RequireOwner(targetUUID, callerUUID, "Можно изменять только свой профиль"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	var req struct {
		Username   *string `json:"username"`
		Email      *string `json:"email"`
		Bio        *string `json:"bio"`
		Location   *string `json:"location"`
		ProfilePic *string `json:"profile_pic"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя пользователя не может быть пустым"})
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email не может быть пустым"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	user, err := s.db.UpdateUser(ctx, targetUUID, db.UserPatch{
		Username:   req.Username,
		Email:      req.Email,
		Bio:        req.Bio,
		Location:   req.Location,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	// Имя или email могли измениться, выдаем свежий токен
	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		log.Printf("Ошибка создания токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// DeleteUser удаляет аккаунт. Разрешено только самому пользователю.
func (s *AuthService) DeleteUser(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	targetID := c.Params("userId")

	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	if err := utils.RequireOwner(targetUUID, callerUUID, "Можно удалить только свой аккаунт"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	if err := s.db.DeleteUser(ctx, targetUUID); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Аккаунт удален",
	})
}
