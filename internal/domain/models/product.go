package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар магазина.
// Category, Size и Color заполняются через JOIN при выборке по id.
type Product struct {
	ID         string          `json:"id"`
	StoreID    string          `json:"store_id"`
	CategoryID string          `json:"category_id"`
	SizeID     string          `json:"size_id"`
	ColorID    string          `json:"color_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	IsFeatured bool            `json:"is_featured"`
	IsArchived bool            `json:"is_archived"`
	Images     []ProductImage  `json:"images"`
	Category   *Category       `json:"category,omitempty"`
	Size       *Size           `json:"size,omitempty"`
	Color      *Color          `json:"color,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductImage — изображение товара
type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
}
