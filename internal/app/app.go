package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/mkhwld/store-backend/internal/cache"
	"github.com/mkhwld/store-backend/internal/config"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Cache  *cache.ProductCache
}

// NewApp создаёт новый экземпляр App
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is not set")
	}
	// реализуем подключение к БД через DSN
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User,
		dbPassword,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// кеш опционален: пустой addr оставляет витрину работать напрямую от БД
	var productCache *cache.ProductCache
	if cfg.Redis.Addr != "" {
		productCache, err = cache.New(ctx, cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.CacheTTL, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	app := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
		Cache:  productCache,
	}

	return app, nil
}
