package models

import "time"

// Store представляет магазин; все сущности каталога и заказы привязаны к магазину
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"-"` // владелец магазина
	CreatedAt time.Time `json:"created_at"`
}
