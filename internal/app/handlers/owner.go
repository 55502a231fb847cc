package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/jwt-new/jwtmiddleware"
	"github.com/mkhwld/store-backend/internal/storage"
)

// requireStoreOwner извлекает storeID из URL и проверяет, что магазин
// принадлежит аутентифицированному пользователю. При нарушении пишет ответ
// (401/403/500) и возвращает ok=false.
func requireStoreOwner(log *slog.Logger, w http.ResponseWriter, r *http.Request, storeRepo storage.StoreStorage) (string, bool) {
	storeID := chi.URLParam(r, "storeID")

	userID, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		log.Error("userID not found in context")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	if _, err := storeRepo.GetStoreForUser(r.Context(), storeID, userID); err != nil {
		if errors.Is(err, storage.ErrStoreNotFound) {
			log.Warn("store access denied",
				slog.String("storeID", storeID),
				slog.Int64("userID", userID),
			)
			http.Error(w, "forbidden", http.StatusForbidden)
			return "", false
		}
		log.Error("failed to check store ownership", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return "", false
	}

	return storeID, true
}
