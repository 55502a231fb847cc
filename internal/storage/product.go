package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mkhwld/store-backend/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductFilter — витринные фильтры списка товаров.
type ProductFilter struct {
	CategoryID string
	SizeID     string
	ColorID    string
	Featured   *bool
}

// ProductStorage описывает методы для работы с товарами.
type ProductStorage interface {
	// Create вставляет товар вместе с изображениями в одной транзакции.
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	// GetByID возвращает товар с изображениями и связанными категорией/размером/цветом.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// ListByStore возвращает неархивные товары магазина с учетом фильтров.
	ListByStore(ctx context.Context, storeID string, f ProductFilter) ([]*models.Product, error)
	// GetByIDs возвращает товары по набору идентификаторов одним запросом.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error)
	// Update обновляет товар; изображения заменяются целиком.
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	p.ID = uuid.NewString()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO products (id, store_id, category_id, size_id, color_id, name, price, is_featured, is_archived, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()) RETURNING created_at`,
		p.ID, p.StoreID, p.CategoryID, p.SizeID, p.ColorID, p.Name, p.Price, p.IsFeatured, p.IsArchived,
	).Scan(&p.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := insertImagesTx(ctx, tx, p); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p := &models.Product{
		Category: &models.Category{},
		Size:     &models.Size{},
		Color:    &models.Color{},
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.store_id, p.category_id, p.size_id, p.color_id, p.name, p.price, p.is_featured, p.is_archived, p.created_at,
		       c.id, c.name, s.id, s.name, s.value, col.id, col.name, col.value
		FROM products p
		JOIN categories c ON p.category_id = c.id
		JOIN sizes s ON p.size_id = s.id
		JOIN colors col ON p.color_id = col.id
		WHERE p.id = $1`, id)
	err := row.Scan(
		&p.ID, &p.StoreID, &p.CategoryID, &p.SizeID, &p.ColorID, &p.Name, &p.Price, &p.IsFeatured, &p.IsArchived, &p.CreatedAt,
		&p.Category.ID, &p.Category.Name, &p.Size.ID, &p.Size.Name, &p.Size.Value, &p.Color.ID, &p.Color.Name, &p.Color.Value,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	images, err := r.imagesFor(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Images = images[p.ID]
	return p, nil
}

func (r *productRepository) ListByStore(ctx context.Context, storeID string, f ProductFilter) ([]*models.Product, error) {
	query := `
		SELECT id, store_id, category_id, size_id, color_id, name, price, is_featured, is_archived, created_at
		FROM products
		WHERE store_id = $1 AND is_archived = FALSE`
	args := []interface{}{storeID}

	// фильтры добавляются позиционно
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.SizeID != "" {
		args = append(args, f.SizeID)
		query += fmt.Sprintf(" AND size_id = $%d", len(args))
	}
	if f.ColorID != "" {
		args = append(args, f.ColorID)
		query += fmt.Sprintf(" AND color_id = $%d", len(args))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		query += fmt.Sprintf(" AND is_featured = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	var ids []string
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.StoreID, &p.CategoryID, &p.SizeID, &p.ColorID, &p.Name, &p.Price, &p.IsFeatured, &p.IsArchived, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		images, err := r.imagesFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			p.Images = images[p.ID]
		}
	}
	return products, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, category_id, size_id, color_id, name, price, is_featured, is_archived, created_at
		FROM products
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.StoreID, &p.CategoryID, &p.SizeID, &p.ColorID, &p.Name, &p.Price, &p.IsFeatured, &p.IsArchived, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *models.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE products SET name = $1, price = $2, category_id = $3, size_id = $4, color_id = $5, is_featured = $6, is_archived = $7
		 WHERE id = $8`,
		p.Name, p.Price, p.CategoryID, p.SizeID, p.ColorID, p.IsFeatured, p.IsArchived, p.ID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrProductNotFound
	}

	// изображения заменяются целиком
	if _, err := tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = $1", p.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := insertImagesTx(ctx, tx, p); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) imagesFor(ctx context.Context, productIDs []string) (map[string][]models.ProductImage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, product_id, url FROM product_images WHERE product_id = ANY($1)", pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make(map[string][]models.ProductImage)
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return nil, err
		}
		images[img.ProductID] = append(images[img.ProductID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func insertImagesTx(ctx context.Context, tx *sql.Tx, p *models.Product) error {
	for i := range p.Images {
		p.Images[i].ID = uuid.NewString()
		p.Images[i].ProductID = p.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (id, product_id, url) VALUES ($1, $2, $3)",
			p.Images[i].ID, p.ID, p.Images[i].URL); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}
	return nil
}
