package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/storage"
)

// CategoryRequest — тело создания/обновления категории.
type CategoryRequest struct {
	Name        string `json:"name"`
	BillboardID string `json:"billboardId"`
}

func (r *CategoryRequest) validate() error {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.BillboardID == "" {
		missing = append(missing, "billboardId")
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing...)
	}
	return nil
}

func ListCategoriesHandler(log *slog.Logger, repo storage.CategoryStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCategoriesHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")
		categories, err := repo.ListByStore(r.Context(), storeID)
		if err != nil {
			logger.Error("failed to list categories", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if categories == nil {
			categories = []*models.Category{}
		}
		writeJSON(logger, w, http.StatusOK, categories)
	}
}

func GetCategoryHandler(log *slog.Logger, repo storage.CategoryStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCategoryHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "categoryID")
		category, err := repo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				writeError(logger, w, apperr.NotFound("category"))
				return
			}
			logger.Error("failed to get category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, category)
	}
}

func CreateCategoryHandler(log *slog.Logger, repo storage.CategoryStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateCategoryHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		category, err := repo.Create(r.Context(), &models.Category{
			StoreID:     storeID,
			BillboardID: req.BillboardID,
			Name:        req.Name,
		})
		if err != nil {
			logger.Error("failed to create category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, category)
	}
}

func UpdateCategoryHandler(log *slog.Logger, repo storage.CategoryStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCategoryHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		category := &models.Category{
			ID:          chi.URLParam(r, "categoryID"),
			StoreID:     storeID,
			BillboardID: req.BillboardID,
			Name:        req.Name,
		}
		if err := repo.Update(r.Context(), category); err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				writeError(logger, w, apperr.NotFound("category"))
				return
			}
			logger.Error("failed to update category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, category)
	}
}

func DeleteCategoryHandler(log *slog.Logger, repo storage.CategoryStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteCategoryHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := requireStoreOwner(logger, w, r, storeRepo); !ok {
			return
		}

		if err := repo.Delete(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				writeError(logger, w, apperr.NotFound("category"))
				return
			}
			logger.Error("failed to delete category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"success": true})
	}
}
