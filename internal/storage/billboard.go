package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrBillboardNotFound = errors.New("billboard not found")

// BillboardStorage описывает методы для работы с баннерами витрины.
type BillboardStorage interface {
	Create(ctx context.Context, b *models.Billboard) (*models.Billboard, error)
	GetByID(ctx context.Context, id string) (*models.Billboard, error)
	ListByStore(ctx context.Context, storeID string) ([]*models.Billboard, error)
	Update(ctx context.Context, b *models.Billboard) error
	Delete(ctx context.Context, id string) error
}

type billboardRepository struct {
	db *sql.DB
}

func NewBillboardRepository(db *sql.DB) BillboardStorage {
	return &billboardRepository{db: db}
}

func (r *billboardRepository) Create(ctx context.Context, b *models.Billboard) (*models.Billboard, error) {
	b.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO billboards (id, store_id, label, image_url, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		b.ID, b.StoreID, b.Label, b.ImageURL,
	).Scan(&b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create billboard: %w", err)
	}
	return b, nil
}

func (r *billboardRepository) GetByID(ctx context.Context, id string) (*models.Billboard, error) {
	b := &models.Billboard{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, label, image_url, created_at FROM billboards WHERE id = $1", id)
	if err := row.Scan(&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillboardNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *billboardRepository) ListByStore(ctx context.Context, storeID string) ([]*models.Billboard, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, store_id, label, image_url, created_at FROM billboards WHERE store_id = $1 ORDER BY created_at DESC", storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var billboards []*models.Billboard
	for rows.Next() {
		b := &models.Billboard{}
		if err := rows.Scan(&b.ID, &b.StoreID, &b.Label, &b.ImageURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		billboards = append(billboards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return billboards, nil
}

func (r *billboardRepository) Update(ctx context.Context, b *models.Billboard) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE billboards SET label = $1, image_url = $2 WHERE id = $3", b.Label, b.ImageURL, b.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBillboardNotFound
	}
	return nil
}

func (r *billboardRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM billboards WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBillboardNotFound
	}
	return nil
}
