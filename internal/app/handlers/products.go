package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
	"github.com/mkhwld/store-backend/internal/storage"
	"github.com/shopspring/decimal"
)

// ProductRequest — тело создания/обновления товара.
// Price принимается строкой, чтобы не терять точность на float64.
type ProductRequest struct {
	Name       string   `json:"name"`
	Price      string   `json:"price"`
	CategoryID string   `json:"categoryId"`
	SizeID     string   `json:"sizeId"`
	ColorID    string   `json:"colorId"`
	Images     []string `json:"images"`
	IsFeatured bool     `json:"isFeatured"`
	IsArchived bool     `json:"isArchived"`
}

func (r *ProductRequest) toProduct(storeID string) (*models.Product, error) {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Price == "" {
		missing = append(missing, "price")
	}
	if r.CategoryID == "" {
		missing = append(missing, "categoryId")
	}
	if r.SizeID == "" {
		missing = append(missing, "sizeId")
	}
	if r.ColorID == "" {
		missing = append(missing, "colorId")
	}
	if len(r.Images) == 0 {
		missing = append(missing, "images")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return nil, apperr.NewValidation("price must be a non-negative decimal")
	}

	images := make([]models.ProductImage, 0, len(r.Images))
	for _, u := range r.Images {
		images = append(images, models.ProductImage{URL: u})
	}

	return &models.Product{
		StoreID:    storeID,
		CategoryID: r.CategoryID,
		SizeID:     r.SizeID,
		ColorID:    r.ColorID,
		Name:       r.Name,
		Price:      price,
		IsFeatured: r.IsFeatured,
		IsArchived: r.IsArchived,
		Images:     images,
	}, nil
}

// filterFromQuery собирает витринные фильтры из query-строки.
func filterFromQuery(r *http.Request) storage.ProductFilter {
	q := r.URL.Query()
	f := storage.ProductFilter{
		CategoryID: q.Get("categoryId"),
		SizeID:     q.Get("sizeId"),
		ColorID:    q.Get("colorId"),
	}
	if q.Get("isFeatured") == "true" {
		featured := true
		f.Featured = &featured
	}
	return f
}

// ListProductsHandler обрабатывает GET /api/{storeID}/products (публичный,
// читает сквозь кеш).
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")
		products, err := productService.List(r.Context(), storeID, filterFromQuery(r))
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}
		writeJSON(logger, w, http.StatusOK, products)
	}
}

// GetProductHandler обрабатывает GET /api/{storeID}/products/{productID} (публичный).
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		product, err := productService.Get(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			logger.Error("failed to get product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, product)
	}
}

// CreateProductHandler обрабатывает POST /api/{storeID}/products (только владелец).
func CreateProductHandler(log *slog.Logger, productService service.ProductService, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}

		product, err := req.toProduct(storeID)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		created, err := productService.Create(r.Context(), product)
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

// UpdateProductHandler обрабатывает PATCH /api/{storeID}/products/{productID}.
func UpdateProductHandler(log *slog.Logger, productService service.ProductService, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}

		product, err := req.toProduct(storeID)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		product.ID = chi.URLParam(r, "productID")

		if err := productService.Update(r.Context(), product); err != nil {
			logger.Error("failed to update product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, product)
	}
}

// DeleteProductHandler обрабатывает DELETE /api/{storeID}/products/{productID}.
func DeleteProductHandler(log *slog.Logger, productService service.ProductService, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		if err := productService.Delete(r.Context(), chi.URLParam(r, "productID"), storeID); err != nil {
			logger.Error("failed to delete product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"success": true})
	}
}
