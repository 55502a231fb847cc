package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrSizeNotFound = errors.New("size not found")

// SizeStorage описывает методы для работы с размерами товаров.
type SizeStorage interface {
	Create(ctx context.Context, s *models.Size) (*models.Size, error)
	GetByID(ctx context.Context, id string) (*models.Size, error)
	ListByStore(ctx context.Context, storeID string) ([]*models.Size, error)
	Update(ctx context.Context, s *models.Size) error
	Delete(ctx context.Context, id string) error
}

type sizeRepository struct {
	db *sql.DB
}

func NewSizeRepository(db *sql.DB) SizeStorage {
	return &sizeRepository{db: db}
}

func (r *sizeRepository) Create(ctx context.Context, s *models.Size) (*models.Size, error) {
	s.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sizes (id, store_id, name, value, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		s.ID, s.StoreID, s.Name, s.Value,
	).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create size: %w", err)
	}
	return s, nil
}

func (r *sizeRepository) GetByID(ctx context.Context, id string) (*models.Size, error) {
	s := &models.Size{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, name, value, created_at FROM sizes WHERE id = $1", id)
	if err := row.Scan(&s.ID, &s.StoreID, &s.Name, &s.Value, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSizeNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sizeRepository) ListByStore(ctx context.Context, storeID string) ([]*models.Size, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, store_id, name, value, created_at FROM sizes WHERE store_id = $1 ORDER BY created_at DESC", storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []*models.Size
	for rows.Next() {
		s := &models.Size{}
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Name, &s.Value, &s.CreatedAt); err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *sizeRepository) Update(ctx context.Context, s *models.Size) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sizes SET name = $1, value = $2 WHERE id = $3", s.Name, s.Value, s.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSizeNotFound
	}
	return nil
}

func (r *sizeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sizes WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSizeNotFound
	}
	return nil
}
