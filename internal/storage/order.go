package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заказ и все его позиции в одной транзакции.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// GetOrderForStore возвращает заказ только в рамках указанного магазина.
	GetOrderForStore(ctx context.Context, id, storeID string) (*models.Order, error)
	// ListByStore возвращает заказы магазина с позициями и именами товаров.
	ListByStore(ctx context.Context, storeID string) ([]*models.Order, error)
	// MarkPaid выставляет флаг оплаты. Единственный переход false→true в платежном
	// потоке; повторный вызов для оплаченного заказа ничего не меняет.
	MarkPaid(ctx context.Context, id string) error
	// SetPaid выставляет флаг безусловно (ручной админский тумблер).
	SetPaid(ctx context.Context, id string, paid bool) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	order.ID = uuid.NewString()
	order.IsPaid = false
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (id, store_id, is_paid, price, delivery_details, created_at)
		 VALUES ($1, $2, FALSE, $3, $4, NOW()) RETURNING created_at`,
		order.ID, order.StoreID, order.Price, order.DeliveryDetails,
	).Scan(&order.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (id, order_id, product_id, price) VALUES ($1, $2, $3, $4)",
			item.ID, order.ID, item.ProductID, item.Price); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, is_paid, price, delivery_details, created_at FROM orders WHERE id = $1", id)
	if err := row.Scan(&order.ID, &order.StoreID, &order.IsPaid, &order.Price, &order.DeliveryDetails, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderForStore(ctx context.Context, id, storeID string) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, is_paid, price, delivery_details, created_at FROM orders WHERE id = $1 AND store_id = $2", id, storeID)
	if err := row.Scan(&order.ID, &order.StoreID, &order.IsPaid, &order.Price, &order.DeliveryDetails, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByStore(ctx context.Context, storeID string) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.store_id, o.is_paid, o.price, o.delivery_details, o.created_at,
		       i.id, i.product_id, i.price, p.name
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		LEFT JOIN products p ON p.id = i.product_id
		WHERE o.store_id = $1
		ORDER BY o.created_at DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	byID := make(map[string]*models.Order)
	for rows.Next() {
		order := &models.Order{}
		var itemID, productID, productName sql.NullString
		var itemPrice sql.NullString
		if err := rows.Scan(&order.ID, &order.StoreID, &order.IsPaid, &order.Price, &order.DeliveryDetails, &order.CreatedAt,
			&itemID, &productID, &itemPrice, &productName); err != nil {
			return nil, err
		}

		existing, ok := byID[order.ID]
		if !ok {
			byID[order.ID] = order
			orders = append(orders, order)
			existing = order
		}

		if itemID.Valid {
			item := &models.OrderItem{
				ID:          itemID.String,
				OrderID:     existing.ID,
				ProductID:   productID.String,
				ProductName: productName.String,
			}
			if itemPrice.Valid {
				if err := item.Price.Scan(itemPrice.String); err != nil {
					return nil, err
				}
			}
			existing.Items = append(existing.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id string) error {
	// одиночный атомарный UPDATE; идемпотентен — повторная установка TRUE безопасна
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET is_paid = TRUE WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SetPaid(ctx context.Context, id string, paid bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET is_paid = $1 WHERE id = $2", paid, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
