package item

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/db"
	"github.com/rajivgeraev/resale-api/internal/models"
	"github.com/rajivgeraev/resale-api/internal/utils"
)

// ItemService представляет сервис для работы с товарами
type ItemService struct {
	cfg        *config.Config
	db         *db.DB
	jwtService *utils.JWTService
}

// NewItemService создает новый экземпляр ItemService
func NewItemService(cfg *config.Config, database *db.DB) *ItemService {
	return &ItemService{
		cfg:        cfg,
		db:         database,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// itemRequest — тело запроса на создание товара
type itemRequest struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
}

// validate проверяет поля товара до обращения к базе
func (r *itemRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperror.ValidationFailed("title", "Название товара обязательно")
	}
	if !models.IsValidItemType(r.Type) {
		return apperror.ValidationFailed("type", "Недопустимая категория товара")
	}
	if r.Price < models.MinItemPrice {
		return apperror.ValidationFailed("price", "Цена должна быть не меньше 1")
	}
	return nil
}

// itemPatchRequest — тело запроса на обновление товара.
// Nil-поле означает "не менять".
type itemPatchRequest struct {
	Title       *string   `json:"title"`
	Type        *string   `json:"type"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
}

// validate проверяет только присланные поля
func (r *itemPatchRequest) validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return apperror.ValidationFailed("title", "Название товара не может быть пустым")
	}
	if r.Type != nil && !models.IsValidItemType(*r.Type) {
		return apperror.ValidationFailed("type", "Недопустимая категория товара")
	}
	if r.Price != nil && *r.Price < models.MinItemPrice {
		return apperror.ValidationFailed("price", "Цена должна быть не меньше 1")
	}
	return nil
}

// CreateItem создает новый товар
func (s *ItemService) CreateItem(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	sellerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var req itemRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if err := req.validate(); err != nil {
		return utils.ErrorJSON(c, err)
	}

	item := &models.Item{
		SellerID:    sellerUUID,
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Images:      req.Images,
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	if err := s.db.CreateItem(ctx, item); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItems возвращает каталог товаров
func (s *ItemService) GetItems(c fiber.Ctx) error {
	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	items, err := s.db.ListItems(ctx, nil)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetItemsWithFavorites возвращает каталог с признаком избранного
// для текущего пользователя
func (s *ItemService) GetItemsWithFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	items, err := s.db.ListItemsWithFavoriteFlag(ctx, userUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetUserItems возвращает товары конкретного продавца
func (s *ItemService) GetUserItems(c fiber.Ctx) error {
	sellerUUID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	items, err := s.db.ListItems(ctx, &sellerUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetItemTypes возвращает список допустимых категорий
func (s *ItemService) GetItemTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": models.ItemTypes()})
}

// GetItem возвращает один товар с продавцом и офферами
func (s *ItemService) GetItem(c fiber.Ctx) error {
	itemUUID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	item, err := s.db.GetItem(ctx, itemUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(item)
}

// UpdateItem частично изменяет товар: пропущенные поля не трогаются.
// Разрешено только продавцу.
func (s *ItemService) UpdateItem(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	itemUUID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	var req itemPatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if err := req.validate(); err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	sellerID, err := s.db.GetItemSellerID(ctx, itemUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	if err := utils.RequireOwner(sellerID, callerUUID, "Изменять товар может только продавец"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	updated, err := s.db.UpdateItem(ctx, itemUUID, db.ItemPatch{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(updated)
}

// DeleteItem удаляет товар вместе с офферами и записями избранного.
// Разрешено только продавцу.
func (s *ItemService) DeleteItem(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	itemUUID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	sellerID, err := s.db.GetItemSellerID(ctx, itemUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	if err := utils.RequireOwner(sellerID, callerUUID, "Удалять товар может только продавец"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	if err := s.db.DeleteItem(ctx, itemUUID); err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар удален",
	})
}
