package models

import "time"

// Billboard — рекламный баннер витрины магазина
type Billboard struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Label     string    `json:"label"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Category — категория товаров, привязана к баннеру
type Category struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	BillboardID string    `json:"billboard_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Size — размер товара (например, "M" / "Medium")
type Size struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Color — цвет товара, value хранит hex-код
type Color struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// PageMetadata — SEO-метаданные витрины магазина
type PageMetadata struct {
	ID          string `json:"id"`
	StoreID     string `json:"store_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
