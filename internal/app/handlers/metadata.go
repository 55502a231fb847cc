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

// MetadataRequest — SEO-заголовок и описание витрины.
type MetadataRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetMetadataHandler обрабатывает GET /api/{storeID}/metadata (публичный).
func GetMetadataHandler(log *slog.Logger, repo storage.MetadataStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetMetadataHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")
		metadata, err := repo.GetByStore(r.Context(), storeID)
		if err != nil {
			if errors.Is(err, storage.ErrMetadataNotFound) {
				writeError(logger, w, apperr.NotFound("page metadata"))
				return
			}
			logger.Error("failed to get page metadata", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, metadata)
	}
}

// UpsertMetadataHandler обрабатывает PUT /api/{storeID}/metadata (только владелец):
// одна запись на магазин, повторный вызов перезаписывает.
func UpsertMetadataHandler(log *slog.Logger, repo storage.MetadataStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpsertMetadataHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req MetadataRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if req.Title == "" {
			writeError(logger, w, apperr.MissingFields("title"))
			return
		}

		metadata, err := repo.Upsert(r.Context(), &models.PageMetadata{
			StoreID:     storeID,
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			logger.Error("failed to upsert page metadata", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, metadata)
	}
}
