package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
)

// CashCheckoutRequest — интейк заказа без онлайн-оплаты (оплата при доставке).
type CashCheckoutRequest struct {
	ProductsIDs     []string        `json:"productsIds"`
	DeliveryDetails json.RawMessage `json:"deliveryDetails"`
}

type CashCheckoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// CashCheckoutHandler обрабатывает POST /api/{storeID}/checkout/cash.
func CashCheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CashCheckoutHandler"
		logger := log.With(slog.String("op", op))

		storeID := chi.URLParam(r, "storeID")

		var req CashCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, apperr.NewValidation("invalid request body"))
			return
		}

		deliveryDetails := ""
		if len(req.DeliveryDetails) > 0 {
			deliveryDetails = string(req.DeliveryDetails)
		}

		orderID, err := checkoutService.CreateCashOrder(r.Context(), storeID, req.ProductsIDs, deliveryDetails)
		if err != nil {
			logger.Error("failed to create cash order",
				slog.String("storeID", storeID),
				slog.Any("error", err),
			)
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, CashCheckoutResponse{Success: true, OrderID: orderID})
	}
}
