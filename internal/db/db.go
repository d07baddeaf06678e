package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rajivgeraev/resale-api/internal/config"
)

// DB представляет явный хендл хранилища. Создается один раз в main,
// передается сервисам при конструировании и закрывается при остановке.
type DB struct {
	Pool *pgxpool.Pool
}

// New создает пул соединений с базой данных и применяет схему
func New(cfg *config.Config) (*DB, error) {
	// Создаем контекст с таймаутом для подключения
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Настраиваем конфигурацию пула соединений
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе URL базы данных: %w", err)
	}

	// Дополнительная настройка пула соединений
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	// Создаем пул соединений
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пула соединений: %w", err)
	}

	// Проверяем соединение
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка при проверке соединения: %w", err)
	}

	database := &DB{Pool: pool}

	// Применяем схему
	if err := database.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка при применении схемы: %w", err)
	}

	log.Println("✅ Успешное подключение к базе данных")
	return database, nil
}

// Close закрывает пул соединений
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// GetContext возвращает контекст с таймаутом для запросов к базе данных.
// Родителем служит контекст запроса: обрыв соединения клиентом отменяет
// работу в базе, а не только таймаут.
func GetContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, 5*time.Second)
}

// migrate применяет схему базы данных. Операторы идемпотентны,
// повторный запуск на существующей базе безопасен.
func (db *DB) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			profile_pic TEXT,
			bio TEXT,
			location TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// seller_id без внешнего ключа: товары переживают удаление
		// продавца, чтение подставляет пустого пользователя
		`CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			seller_id UUID NOT NULL,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT,
			location TEXT,
			price DOUBLE PRECISION NOT NULL CHECK (price >= 1),
			images TEXT[] NOT NULL DEFAULT '{}',
			favourited_by UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_seller_id ON items(seller_id)`,
		`CREATE TABLE IF NOT EXISTS offers (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES items(id),
			buyer_id UUID NOT NULL,
			amount DOUBLE PRECISION NOT NULL CHECK (amount >= 10),
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_item_id ON offers(item_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_buyer_id ON offers(buyer_id)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			item_id UUID NOT NULL REFERENCES items(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_user_item ON favorites(user_id, item_id)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			rater_id UUID NOT NULL REFERENCES users(id),
			target_user_id UUID NOT NULL REFERENCES users(id),
			rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_rater_target ON reviews(rater_id, target_user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
