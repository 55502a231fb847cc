package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrMetadataNotFound = errors.New("page metadata not found")

// MetadataStorage описывает методы для работы с SEO-метаданными витрины.
type MetadataStorage interface {
	GetByStore(ctx context.Context, storeID string) (*models.PageMetadata, error)
	// Upsert создает запись или обновляет существующую (одна запись на магазин).
	Upsert(ctx context.Context, m *models.PageMetadata) (*models.PageMetadata, error)
}

type metadataRepository struct {
	db *sql.DB
}

func NewMetadataRepository(db *sql.DB) MetadataStorage {
	return &metadataRepository{db: db}
}

func (r *metadataRepository) GetByStore(ctx context.Context, storeID string) (*models.PageMetadata, error) {
	m := &models.PageMetadata{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, store_id, title, description FROM page_metadata WHERE store_id = $1", storeID)
	if err := row.Scan(&m.ID, &m.StoreID, &m.Title, &m.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMetadataNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *metadataRepository) Upsert(ctx context.Context, m *models.PageMetadata) (*models.PageMetadata, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO page_metadata (id, store_id, title, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
		RETURNING id`,
		m.ID, m.StoreID, m.Title, m.Description,
	).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert page metadata: %w", err)
	}
	return m, nil
}
