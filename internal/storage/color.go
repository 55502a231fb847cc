package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrColorNotFound = errors.New("color not found")

// ColorStorage описывает методы для работы с цветами товаров.
type ColorStorage interface {
	Create(ctx context.Context, c *models.Color) (*models.Color, error)
	GetByID(ctx context.Context, id string) (*models.Color, error)
	ListByStore(ctx context.Context, storeID string) ([]*models.Color, error)
	Update(ctx context.Context, c *models.Color) error
	Delete(ctx context.Context, id string) error
}

type colorRepository struct {
	db *sql.DB
}

func NewColorRepository(db *sql.DB) ColorStorage {
	return &colorRepository{db: db}
}

func (r *colorRepository) Create(ctx context.Context, c *models.Color) (*models.Color, error) {
	c.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO colors (id, store_id, name, value, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		c.ID, c.StoreID, c.Name, c.Value,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create color: %w", err)
	}
	return c, nil
}

func (r *colorRepository) GetByID(ctx context.Context, id string) (*models.Color, error) {
	c := &models.Color{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, name, value, created_at FROM colors WHERE id = $1", id)
	if err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Value, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrColorNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *colorRepository) ListByStore(ctx context.Context, storeID string) ([]*models.Color, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, store_id, name, value, created_at FROM colors WHERE store_id = $1 ORDER BY created_at DESC", storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []*models.Color
	for rows.Next() {
		c := &models.Color{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Value, &c.CreatedAt); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *colorRepository) Update(ctx context.Context, c *models.Color) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE colors SET name = $1, value = $2 WHERE id = $3", c.Name, c.Value, c.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrColorNotFound
	}
	return nil
}

func (r *colorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM colors WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrColorNotFound
	}
	return nil
}
