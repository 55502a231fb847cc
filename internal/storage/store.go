package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrStoreNotFound = errors.New("store not found")

// StoreStorage описывает методы для работы с магазинами.
type StoreStorage interface {
	CreateStore(ctx context.Context, store *models.Store) (*models.Store, error)
	GetStoreByID(ctx context.Context, id string) (*models.Store, error)
	// GetStoreForUser возвращает магазин только если он принадлежит пользователю.
	GetStoreForUser(ctx context.Context, id string, userID int64) (*models.Store, error)
	ListStoresByUser(ctx context.Context, userID int64) ([]*models.Store, error)
}

type storeRepository struct {
	db *sql.DB
}

func NewStoreRepository(db *sql.DB) StoreStorage {
	return &storeRepository{db: db}
}

func (r *storeRepository) CreateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	store.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO stores (id, name, user_id, created_at) VALUES ($1, $2, $3, NOW()) RETURNING created_at`,
		store.ID, store.Name, store.UserID,
	).Scan(&store.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return store, nil
}

func (r *storeRepository) GetStoreByID(ctx context.Context, id string) (*models.Store, error) {
	store := &models.Store{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, user_id, created_at FROM stores WHERE id = $1", id)
	if err := row.Scan(&store.ID, &store.Name, &store.UserID, &store.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (r *storeRepository) GetStoreForUser(ctx context.Context, id string, userID int64) (*models.Store, error) {
	store := &models.Store{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, user_id, created_at FROM stores WHERE id = $1 AND user_id = $2", id, userID)
	if err := row.Scan(&store.ID, &store.Name, &store.UserID, &store.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (r *storeRepository) ListStoresByUser(ctx context.Context, userID int64) ([]*models.Store, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, user_id, created_at FROM stores WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		store := &models.Store{}
		if err := rows.Scan(&store.ID, &store.Name, &store.UserID, &store.CreatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}
