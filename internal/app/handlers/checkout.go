package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
)

// WidgetCheckoutRequest — запрос виджетного чекаута с данными покупателя.
type WidgetCheckoutRequest struct {
	ProductIDs []string         `json:"productIds"`
	Customer   service.Customer `json:"customer"`
	Billing    service.Billing  `json:"billing"`
}

// WidgetCheckoutHandler обрабатывает POST /api/{storeID}/checkout.
func WidgetCheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.WidgetCheckoutHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")

		var req WidgetCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}

		checkout, err := checkoutService.PrepareWidgetCheckout(r.Context(), storeID, req.ProductIDs, req.Customer, req.Billing)
		if err != nil {
			logger.Error("failed to prepare widget checkout",
				slog.String("storeID", storeID),
				slog.Any("error", err),
			)
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, checkout)
	}
}
