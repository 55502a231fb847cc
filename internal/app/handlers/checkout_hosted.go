package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
)

type HostedCheckoutRequest struct {
	ProductIDs []string `json:"productIds"`
}

// HostedCheckoutHandler обрабатывает POST /api/{storeID}/checkout/hosted:
// создает заказ и возвращает URL платежной страницы для редиректа.
func HostedCheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.HostedCheckoutHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")

		var req HostedCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}

		checkout, err := checkoutService.CreateHostedSession(r.Context(), storeID, req.ProductIDs)
		if err != nil {
			logger.Error("failed to create hosted session",
				slog.String("storeID", storeID),
				slog.Any("error", err),
			)
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, checkout)
	}
}
