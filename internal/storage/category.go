package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryStorage описывает методы для работы с категориями товаров.
type CategoryStorage interface {
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	ListByStore(ctx context.Context, storeID string) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryStorage {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	c.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (id, store_id, billboard_id, name, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		c.ID, c.StoreID, c.BillboardID, c.Name,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c := &models.Category{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, billboard_id, name, created_at FROM categories WHERE id = $1", id)
	if err := row.Scan(&c.ID, &c.StoreID, &c.BillboardID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) ListByStore(ctx context.Context, storeID string) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, store_id, billboard_id, name, created_at FROM categories WHERE store_id = $1 ORDER BY created_at DESC", storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.BillboardID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *models.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, billboard_id = $2 WHERE id = $3", c.Name, c.BillboardID, c.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
