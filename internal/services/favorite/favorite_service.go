package favorite

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/db"
	"github.com/rajivgeraev/resale-api/internal/utils"
)

// FavoriteService представляет сервис для работы с избранными товарами
type FavoriteService struct {
	cfg        *config.Config
	db         *db.DB
	jwtService *utils.JWTService
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config, database *db.DB) *FavoriteService {
	return &FavoriteService{
		cfg:        cfg,
		db:         database,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// parseIDs извлекает UUID пользователя из контекста и товара из параметра
func parseIDs(c fiber.Ctx, itemParam string) (uuid.UUID, uuid.UUID, error) {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.ValidationFailed("user_id", "Неверный формат ID пользователя")
	}

	itemUUID, err := uuid.Parse(itemParam)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.ValidationFailed("item_id", "Неверный формат ID товара")
	}

	return userUUID, itemUUID, nil
}

// ToggleFavorite переключает товар в избранном текущего пользователя
func (s *FavoriteService) ToggleFavorite(c fiber.Ctx) error {
	userUUID, itemUUID, err := parseIDs(c, c.Params("itemId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	isFavorited, err := s.db.ToggleFavorite(ctx, userUUID, itemUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"is_favorited": isFavorited,
	})
}

// AddToFavorites добавляет товар в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	var req struct {
		ItemID string `json:"item_id"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	userUUID, itemUUID, err := parseIDs(c, req.ItemID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	if err := s.db.AddFavorite(ctx, userUUID, itemUUID); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"is_favorited": true,
	})
}

// RemoveFromFavorites удаляет товар из избранного.
// Повторное удаление не считается ошибкой.
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userUUID, itemUUID, err := parseIDs(c, c.Params("itemId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	if err := s.db.RemoveFavorite(ctx, userUUID, itemUUID); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"is_favorited": false,
	})
}

// CheckFavorite проверяет, находится ли товар в избранном
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	userUUID, itemUUID, err := parseIDs(c, c.Params("itemId"))
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	isFavorited, err := s.db.IsFavorited(ctx, userUUID, itemUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{"is_favorited": isFavorited})
}

// GetFavorites возвращает избранные товары текущего пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	items, err := s.db.ListFavoritesForUser(ctx, userUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}
