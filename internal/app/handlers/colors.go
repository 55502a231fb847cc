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

// ColorRequest — тело создания/обновления цвета; value — hex-код.
type ColorRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *ColorRequest) validate() error {
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

func ListColorsHandler(log *slog.Logger, repo storage.ColorStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListColorsHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")
		colors, err := repo.ListByStore(r.Context(), storeID)
		if err != nil {
			logger.Error("failed to list colors", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if colors == nil {
			colors = []*models.Color{}
		}
		writeJSON(logger, w, http.StatusOK, colors)
	}
}

func GetColorHandler(log *slog.Logger, repo storage.ColorStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetColorHandler"
		logger := log.With(slog.String("op", op))

		color, err := repo.GetByID(r.Context(), chi.URLParam(r, "colorID"))
		if err != nil {
			if errors.Is(err, storage.ErrColorNotFound) {
				writeError(logger, w, apperr.NotFound("color"))
				return
			}
			logger.Error("failed to get color", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, color)
	}
}

func CreateColorHandler(log *slog.Logger, repo storage.ColorStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateColorHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req ColorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		color, err := repo.Create(r.Context(), &models.Color{
			StoreID: storeID,
			Name:    req.Name,
			Value:   req.Value,
		})
		if err != nil {
			logger.Error("failed to create color", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, color)
	}
}

func UpdateColorHandler(log *slog.Logger, repo storage.ColorStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateColorHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		var req ColorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}
		if err := req.validate(); err != nil {
			writeError(logger, w, err)
			return
		}

		color := &models.Color{
			ID:      chi.URLParam(r, "colorID"),
			StoreID: storeID,
			Name:    req.Name,
			Value:   req.Value,
		}
		if err := repo.Update(r.Context(), color); err != nil {
			if errors.Is(err, storage.ErrColorNotFound) {
				writeError(logger, w, apperr.NotFound("color"))
				return
			}
			logger.Error("failed to update color", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, color)
	}
}

func DeleteColorHandler(log *slog.Logger, repo storage.ColorStorage, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteColorHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := requireStoreOwner(logger, w, r, storeRepo); !ok {
			return
		}

		if err := repo.Delete(r.Context(), chi.URLParam(r, "colorID")); err != nil {
			if errors.Is(err, storage.ErrColorNotFound) {
				writeError(logger, w, apperr.NotFound("color"))
				return
			}
			logger.Error("failed to delete color", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"success": true})
	}
}
