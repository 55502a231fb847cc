package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/storage"
	"github.com/redis/go-redis/v9"
)

// ProductCache кеширует витринные выборки товаров в Redis.
// Инвалидация через счетчик версии магазина: запись в каталог инкрементирует
// версию, и все ключи старой версии перестают читаться (доживают до TTL).
// Nil-кеш безопасен: все методы работают как no-op.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, addr string, db int, ttl time.Duration, log *slog.Logger) (*ProductCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &ProductCache{rdb: rdb, ttl: ttl, log: log}, nil
}

// Close закрывает соединение с Redis.
func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get возвращает закешированную выборку; третий результат — признак попадания.
// При промахе возвращает версию, под которой читался ключ: вызывающий передает
// ее обратно в Set, чтобы запоздавшая запись легла под уже устаревший ключ,
// а не под свежий, если Invalidate успел сработать между чтением БД и Set.
// Ошибки Redis деградируют до промаха, витрина продолжает работать от БД.
func (c *ProductCache) Get(ctx context.Context, storeID string, f storage.ProductFilter) ([]*models.Product, int64, bool) {
	if c == nil {
		return nil, 0, false
	}
	ver, err := c.version(ctx, storeID)
	if err != nil {
		return nil, 0, false
	}
	key := listKey(storeID, ver, f)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, ver, false
	}

	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.log.Warn("failed to decode cached products", slog.String("key", key), slog.Any("error", err))
		return nil, ver, false
	}
	return products, ver, true
}

// Set сохраняет выборку с TTL под версией, полученной из Get.
func (c *ProductCache) Set(ctx context.Context, storeID string, f storage.ProductFilter, ver int64, products []*models.Product) {
	if c == nil {
		return
	}
	key := listKey(storeID, ver, f)

	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache products", slog.String("key", key), slog.Any("error", err))
	}
}

// Invalidate инкрементирует версию магазина, отсекая все ключи старой версии.
func (c *ProductCache) Invalidate(ctx context.Context, storeID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, versionKey(storeID)).Err(); err != nil {
		c.log.Warn("failed to bump cache version", slog.String("storeID", storeID), slog.Any("error", err))
	}
}

func (c *ProductCache) version(ctx context.Context, storeID string) (int64, error) {
	ver, err := c.rdb.Get(ctx, versionKey(storeID)).Int64()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return ver, nil
}

func listKey(storeID string, ver int64, f storage.ProductFilter) string {
	featured := ""
	if f.Featured != nil {
		featured = strconv.FormatBool(*f.Featured)
	}
	return fmt.Sprintf("products:%s:v%d:%s:%s:%s:%s",
		storeID, ver, f.CategoryID, f.SizeID, f.ColorID, featured)
}

func versionKey(storeID string) string {
	return "products:" + storeID + ":ver"
}
