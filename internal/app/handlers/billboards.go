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

// BillboardRequest — тело создания/обновления баннера.
type BillboardRequest struct {
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl"`
}

func (r *BillboardRequest) validate() error {
	var missing []string
	if r.Label == "" {
		missing = append(missing, "label")
	}
	if r.ImageURL == "" {
		missing = append(missing, "imageUrl")
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing...)
	}
	return nil
}

// ListBillboardsHandler обрабатывает GET /api/{storeID}/billboards (публичный).
func ListBillboardsHandler(log *slog.Logger, repo storage.BillboardStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListBillboardsHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")
		billboards, err := repo.ListByStore(r.Context(), storeID)
		if err != nil {
			logger.Error("failed to list billboards", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if billboards == nil {
			billboards = []*models.Billboard{}
		}
		writeJSON(logger, w, http.StatusOK, billboards)
	}
}

// GetBillboardHandler обрабатывает GET /api/{storeID}/billboards/{billboardID} (публичный).
func GetBillboardHandler(log *slog.Logger, repo storage.BillboardStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetBillboardHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "billboardID")
		billboard, err := repo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrBillboardNotFound) {
				writeError(logger, w, apperr.NotFound("billboard"))
				return
			}
			logger.Error("failed to get billboard", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, billboard)
	}
}

// CreateBillboardHandler обрабатывает POST /api/{storeID}/billboards (только владелец).
func CreateBillboardHandler(log *slog.Logger, repo storage.BillboardStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateBillboardHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req BillboardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		billboard, err := repo.Create(r.Context(), &models.Billboard{
			StoreID:  storeID,
			Label:    req.Label,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			logger.Error("failed to create billboard", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, billboard)
	}
}

// UpdateBillboardHandler обрабатывает PATCH /api/{storeID}/billboards/{billboardID}.
func UpdateBillboardHandler(log *slog.Logger, repo storage.BillboardStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateBillboardHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req BillboardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		billboard := &models.Billboard{
			ID:       chi.URLParam(r, "billboardID"),
			StoreID:  storeID,
			Label:    req.Label,
			ImageURL: req.ImageURL,
		}
		if err := repo.Update(r.Context(), billboard); err != nil {
			if errors.Is(err, storage.ErrBillboardNotFound) {
				writeError(logger, w, apperr.NotFound("billboard"))
				return
			}
			logger.Error("failed to update billboard", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, billboard)
	}
}

// DeleteBillboardHandler обрабатывает DELETE /api/{storeID}/billboards/{billboardID}.
func DeleteBillboardHandler(log *slog.Logger, repo storage.BillboardStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteBillboardHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := requireStoreOwner(logger, w, r, storeRepo); !ok {
			return
		}

		id := chi.URLParam(r, "billboardID")
		if err := repo.Delete(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrBillboardNotFound) {
				writeError(logger, w, apperr.NotFound("billboard"))
				return
			}
			logger.Error("failed to delete billboard", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"success": true})
	}
}
