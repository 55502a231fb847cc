package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkhwld/store-backend/internal/cache"
	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/storage"
)

type ProductService interface {
	// List возвращает витринную выборку; читает сквозь Redis-кеш.
	List(ctx context.Context, storeID string, f storage.ProductFilter) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id, storeID string) error
}

type productService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	cache       *cache.ProductCache
}

// NewProductService принимает nil-кеш, если Redis не сконфигурирован.
func NewProductService(log *slog.Logger, productRepo storage.ProductStorage, productCache *cache.ProductCache) ProductService {
	return &productService{
		log:         log,
		productRepo: productRepo,
		cache:       productCache,
	}
}

func (s *productService) List(ctx context.Context, storeID string, f storage.ProductFilter) ([]*models.Product, error) {
	const op = "service.ProductService.List"

	products, ver, ok := s.cache.Get(ctx, storeID, f)
	if ok {
		return products, nil
	}

	products, err := s.productRepo.ListByStore(ctx, storeID, f)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.String("storeID", storeID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}

	// Версия зафиксирована до похода в БД: если каталог успели изменить,
	// эта выборка ляжет под устаревший ключ и не перекроет свежие данные.
	s.cache.Set(ctx, storeID, f, ver, products)
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	const op = "service.ProductService.Create"

	product, err := s.productRepo.Create(ctx, p)
	if err != nil {
		s.log.Error("failed to create product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	s.cache.Invalidate(ctx, p.StoreID)
	return product, nil
}

func (s *productService) Update(ctx context.Context, p *models.Product) error {
	const op = "service.ProductService.Update"

	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return apperr.NotFound("product")
		}
		s.log.Error("failed to update product", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to update product: %w", op, err)
	}

	s.cache.Invalidate(ctx, p.StoreID)
	return nil
}

func (s *productService) Delete(ctx context.Context, id, storeID string) error {
	const op = "service.ProductService.Delete"

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return apperr.NotFound("product")
		}
		s.log.Error("failed to delete product", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	s.cache.Invalidate(ctx, storeID)
	return nil
}
