package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
	"github.com/mkhwld/store-backend/internal/storage"
)

// ListOrdersHandler обрабатывает GET /api/{storeID}/orders — админский
// список заказов магазина с позициями.
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService, storeRepo storage.StoreStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		storeID, ok := requireStoreOwner(logger, w, r, storeRepo)
		if !ok {
			return
		}

		orders, err := orderService.ListByStore(r.Context(), storeID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// TogglePaidHandler обрабатывает PATCH /api/order/{orderID}/toggle-paid —
// ручное переключение флага оплаты администратором.
func TogglePaidHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TogglePaidHandler"
		logger := log.With(slog.String("op", op))

		orderID := chi.URLParam(r, "orderID")
		if orderID == "" {
			writeError(logger, w, apperr.NewValidation("order id is required"))
			return
		}

		order, err := orderService.TogglePaid(r.Context(), orderID)
		if err != nil {
			logger.Error("failed to toggle paid flag",
				slog.String("orderID", orderID),
				slog.Any("error", err),
			)
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, order)
	}
}
