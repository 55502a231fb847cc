package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/service"
)

type statusRequest struct {
	ResourcePath string `json:"resourcePath"`
}

// PaymentStatusHandler обрабатывает GET и POST /api/{storeID}/checkout/status.
// GET берет resourcePath из query-строки (редирект процессора), POST — из тела.
// Ответ всегда несет флаг success; HTTP-статус отражает только ошибки сверки.
func PaymentStatusHandler(log *slog.Logger, statusService service.StatusService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentStatusHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")

		resourcePath := r.URL.Query().Get("resourcePath")
		if resourcePath == "" && r.Method == http.MethodPost {
			var req statusRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				resourcePath = req.ResourcePath
			}
		}

		result, err := statusService.Reconcile(r.Context(), storeID, resourcePath)
		if err != nil {
			logger.Error("reconciliation failed",
				slog.String("storeID", storeID),
				slog.Any("error", err),
			)
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, result)
	}
}
