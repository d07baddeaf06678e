package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/resale-api/internal/config"
	"github.com/rajivgeraev/resale-api/internal/db"
	"github.com/rajivgeraev/resale-api/internal/services/auth"
	"github.com/rajivgeraev/resale-api/internal/services/cloudinary"
	"github.com/rajivgeraev/resale-api/internal/services/favorite"
	"github.com/rajivgeraev/resale-api/internal/services/item"
	"github.com/rajivgeraev/resale-api/internal/services/offer"
	"github.com/rajivgeraev/resale-api/internal/services/payment"
	"github.com/rajivgeraev/resale-api/internal/services/review"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	database, err := db.New(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer database.Close()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Resale API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, database)
	itemService := item.NewItemService(cfg, database)
	offerService := offer.NewOfferService(cfg, database)
	favoriteService := favorite.NewFavoriteService(cfg, database)
	reviewService := review.NewReviewService(cfg, database)
	paymentService := payment.NewPaymentService(cfg)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)

	// Регистрируем маршруты. Офферы раньше товаров:
	// /api/items/offers/... не должен попасть в /api/items/:itemId
	authService.SetupRoutes(app)
	offerService.SetupRoutes(app)
	itemService.SetupRoutes(app)
	favoriteService.SetupRoutes(app)
	reviewService.SetupRoutes(app)
	paymentService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// Запускаем сервер
	log.Printf("✅ Resale API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
