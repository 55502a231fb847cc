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

// SizeRequest — тело создания/обновления размера.
type SizeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *SizeRequest) validate() error {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Value == "" {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing...)
	}
	return nil
}

func ListSizesHandler(log *slog.Logger, repo storage.SizeStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListSizesHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")
		sizes, err := repo.ListByStore(r.Context(), storeID)
		if err != nil {
			logger.Error("failed to list sizes", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if sizes == nil {
			sizes = []*models.Size{}
		}
		writeJSON(logger, w, http.StatusOK, sizes)
	}
}

func GetSizeHandler(log *slog.Logger, repo storage.SizeStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetSizeHandler"
		logger := log.With(slog.String("op", op))

		size, err := repo.GetByID(r.Context(), chi.URLParam(r, "sizeID"))
		if err != nil {
			if errors.Is(err, storage.ErrSizeNotFound) {
				writeError(logger, w, apperr.NotFound("size"))
				return
			}
			logger.Error("failed to get size", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, size)
	}
}

func CreateSizeHandler(log *slog.Logger, repo storage.SizeStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateSizeHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req SizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		size, err := repo.Create(r.Context(), &models.Size{
			StoreID: storeID,
			Name:    req.Name,
			Value:   req.Value,
		})
		if err != nil {
			logger.Error("failed to create size", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, size)
	}
}

func UpdateSizeHandler(log *slog.Logger, repo storage.SizeStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateSizeHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req SizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		size := &models.Size{
			ID:      chi.URLParam(r, "sizeID"),
			StoreID: storeID,
			Name:    req.Name,
			Value:   req.Value,
		}
		if err := repo.Update(r.Context(), size); err != nil {
			if errors.Is(err, storage.ErrSizeNotFound) {
				writeError(logger, w, apperr.NotFound("size"))
				return
			}
			logger.Error("failed to update size", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, size)
	}
}

func DeleteSizeHandler(log *slog.Logger, repo storage.SizeStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteSizeHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := requireStoreOwner(logger, w, r, storeRepo); !ok {
			return
		}

		if err := repo.Delete(r.Context(), chi.URLParam(r, "sizeID")); err != nil {
			if errors.Is(err, storage.ErrSizeNotFound) {
				writeError(logger, w, apperr.NotFound("size"))
				return
			}
			logger.Error("failed to delete size", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"success": true})
	}
}
