package offer

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/db"
	"github.com/rajivgeraev/resale-api/internal/models"
	"github.com/rajivgeraev/resale-api/internal/utils"
)

// OfferService представляет сервис офферов
type OfferService struct {
	cfg        *config.Config
	db         *db.DB
	jwtService *utils.JWTService
}

// NewOfferService создает новый экземпляр OfferService
func NewOfferService(cfg *config.Config, database *db.DB) *OfferService {
	return &OfferService{
		cfg:        cfg,
		db:         database,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateOffer создает оффер по товару от текущего пользователя
func (s *OfferService) CreateOffer(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	buyerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	itemUUID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	var req struct {
		Amount float64 `json:"amount"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if req.Amount < models.MinOfferAmount {
		return utils.ErrorJSON(c, apperror.ValidationFailed("amount", "Сумма оффера должна быть не меньше 10"))
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	offer, err := s.db.CreateOffer(ctx, itemUUID, buyerUUID, req.Amount)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(offer)
}

// UpdateOfferStatus принимает или отклоняет оффер. Решение принимает
// только продавец товара, решенный оффер менять нельзя.
func (s *OfferService) UpdateOfferStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	itemUUID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	offerUUID, err := uuid.Parse(c.Params("offerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID оффера"})
	}

	var req struct {
		Status string `json:"status"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !models.IsValidOfferDecision(req.Status) {
		return utils.ErrorJSON(c, apperror.ValidationFailed("status", "Статус должен быть accepted или rejected"))
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	offer, err := s.db.DecideOffer(ctx, itemUUID, offerUUID, callerUUID, req.Status)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(offer)
}

// GetUserOffers возвращает офферы пользователя как покупателя.
// Разрешено только самому пользователю.
func (s *OfferService) GetUserOffers(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	callerUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	targetUUID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	if err := utils.RequireOwner(targetUUID, callerUUID, "Можно смотреть только свои офферы"); err != nil {
		return utils.ErrorJSON(c, err)
	}

	ctx, cancel := db.GetContext(c.RequestCtx())
	defer cancel()

	offers, err := s.db.ListOffersByBuyer(ctx, targetUUID)
	if err != nil {
		return utils.ErrorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"offers": offers,
		"total":  len(offers),
	})
}
