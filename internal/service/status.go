package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkhwld/store-backend/internal/gateway/hyperpay"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/storage"
)

// StatusGateway — запрос финального статуса платежа у процессора.
type StatusGateway interface {
	PaymentStatus(ctx context.Context, resourcePath string) (*hyperpay.StatusResponse, error)
}

// ReconcileResult — структурированный ответ реконсиляции.
// Success=false — не ошибка: клиент показывает "ожидание/отказ" и может повторить опрос.
type ReconcileResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	StoreID string `json:"storeId"`
}

type StatusService interface {
	Reconcile(ctx context.Context, storeID, resourcePath string) (*ReconcileResult, error)
}

type statusService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	gateway   StatusGateway
}

func NewStatusService(log *slog.Logger, orderRepo storage.OrderStorage, gateway StatusGateway) StatusService {
	return &statusService{
		log:       log,
		orderRepo: orderRepo,
		gateway:   gateway,
	}
}

// Reconcile сверяет статус платежа по resourcePath и переносит результат на заказ.
// Флаг оплаты переходит false→true не более одного раза: установка выполняется
// идемпотентным одиночным UPDATE, повторная реконсиляция оплаченного заказа
// ничего не меняет. Неуспешный код результата не мутирует заказ.
func (s *statusService) Reconcile(ctx context.Context, storeID, resourcePath string) (*ReconcileResult, error) {
	const op = "service.StatusService.Reconcile"
	logger := s.log.With(slog.String("op", op), slog.String("storeID", storeID))

	if resourcePath == "" {
		return nil, apperr.NewValidation("resourcePath is required")
	}

	status, err := s.gateway.PaymentStatus(ctx, resourcePath)
	if err != nil {
		logger.Error("payment status query failed", slog.Any("error", err))
		return nil, err
	}

	orderID := status.OrderReference()
	if orderID == "" {
		logger.Error("status response carries no order reference",
			slog.String("resultCode", status.Result.Code),
		)
		return nil, apperr.NotFound("order reference in payment")
	}

	order, err := s.orderRepo.GetOrderForStore(ctx, orderID, storeID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("payment references unknown order", slog.String("orderID", orderID))
			return nil, apperr.NotFound("order")
		}
		logger.Error("failed to load order", slog.String("orderID", orderID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to load order: %w", op, err)
	}

	success := hyperpay.IsSuccessCode(status.Result.Code)
	if success {
		if err := s.orderRepo.MarkPaid(ctx, order.ID); err != nil {
			logger.Error("failed to mark order paid", slog.String("orderID", order.ID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to mark order paid: %w", op, err)
		}
	}

	logger.Info("reconciliation completed",
		slog.String("orderID", order.ID),
		slog.String("resultCode", status.Result.Code),
		slog.Bool("success", success),
	)
	return &ReconcileResult{
		Success: success,
		OrderID: order.ID,
		StoreID: storeID,
	}, nil
}
