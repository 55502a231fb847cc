package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/jwt-new/jwtmiddleware"
	"github.com/mkhwld/store-backend/internal/storage"
)

// CreateStoreRequest — запрос на создание магазина.
type CreateStoreRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateStoreHandler обрабатывает POST /api/stores: создает магазин
// для аутентифицированного владельца.
func CreateStoreHandler(log *slog.Logger, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateStoreHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		store, err := storeRepo.CreateStore(r.Context(), &models.Store{
			Name:   req.Name,
			UserID: userID,
		})
		if err != nil {
			logger.Error("failed to create store", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(logger, w, http.StatusCreated, store)
	}
}

// ListStoresHandler обрабатывает GET /api/stores: магазины текущего владельца.
func ListStoresHandler(log *slog.Logger, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListStoresHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		stores, err := storeRepo.ListStoresByUser(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list stores", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if stores == nil {
			stores = []*models.Store{}
		}

		writeJSON(logger, w, http.StatusOK, stores)
	}
}
