package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/storage"
)

type OrderService interface {
	// ListByStore возвращает заказы магазина для админки, новые сверху.
	ListByStore(ctx context.Context, storeID string) ([]*models.Order, error)
	// TogglePaid безусловно переключает флаг оплаты (ручное админское действие,
	// вне платежной логики).
	TogglePaid(ctx context.Context, orderID string) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage) OrderService {
	return &orderService{log: log, orderRepo: orderRepo}
}

func (s *orderService) ListByStore(ctx context.Context, storeID string) ([]*models.Order, error) {
	const op = "service.OrderService.ListByStore"

	orders, err := s.orderRepo.ListByStore(ctx, storeID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.String("storeID", storeID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) TogglePaid(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "service.OrderService.TogglePaid"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", orderID))

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, apperr.NotFound("order")
		}
		logger.Error("failed to load order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to load order: %w", op, err)
	}

	if err := s.orderRepo.SetPaid(ctx, orderID, !order.IsPaid); err != nil {
		logger.Error("failed to toggle paid flag", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to toggle paid flag: %w", op, err)
	}

	order.IsPaid = !order.IsPaid
	logger.Info("paid flag toggled", slog.Bool("isPaid", order.IsPaid))
	return order, nil
}
