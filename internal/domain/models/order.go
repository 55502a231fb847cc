package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет заказ, созданный при оформлении корзины.
// Price фиксируется при создании как сумма цен позиций и дальше не пересчитывается.
type Order struct {
	ID              string          `json:"id"`
	StoreID         string          `json:"store_id"`
	IsPaid          bool            `json:"is_paid"`
	Price           decimal.Decimal `json:"price"`
	DeliveryDetails string          `json:"delivery_details,omitempty"`
	Items           []*OrderItem    `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem — позиция заказа. Price — снимок цены товара на момент создания заказа,
// может отличаться от текущей цены товара.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"` // заполняется через JOIN
	Price       decimal.Decimal `json:"price"`
}
