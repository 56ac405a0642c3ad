package store

import (
	"context"
	"errors"

	"novashop/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogStore struct {
	Pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{Pool: pool}
}

const productColumns = `id, name, category, description, price, stock, image_url, deliverables, is_deleted, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.ImageURL,
		&p.Deliverables,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpsertProduct inserts or fully replaces a product by name. An upsert over
// a soft-deleted name revives it.
func (s *CatalogStore) UpsertProduct(ctx context.Context, p *models.Product) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO products (name, category, description, price, stock, image_url, deliverables)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (name) DO UPDATE SET
			category=EXCLUDED.category,
			description=EXCLUDED.description,
			price=EXCLUDED.price,
			stock=EXCLUDED.stock,
			image_url=EXCLUDED.image_url,
			deliverables=EXCLUDED.deliverables,
			is_deleted=FALSE,
			updated_at=now()
	`,
		p.Name,
		p.Category,
		p.Description,
		p.Price,
		p.Stock,
		p.ImageURL,
		p.Deliverables,
	)
	return err
}

func (s *CatalogStore) GetByName(ctx context.Context, name string) (*models.Product, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name=$1 AND is_deleted=FALSE
	`, name)
	return scanProduct(row)
}

// GetByID resolves products referenced by historical orders, so it does not
// exclude soft-deleted rows.
func (s *CatalogStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id=$1
	`, id)
	return scanProduct(row)
}

func (s *CatalogStore) ListAll(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE is_deleted=FALSE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *CatalogStore) ListByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE category=$1 AND is_deleted=FALSE
		ORDER BY created_at DESC
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SoftDelete is idempotent: deleting an already-deleted or unknown product
// affects zero rows and is not an error.
func (s *CatalogStore) SoftDelete(ctx context.Context, name string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE products
		SET is_deleted=TRUE, updated_at=now()
		WHERE name=$1
	`, name)
	return err
}

func (s *CatalogStore) SetStock(ctx context.Context, name string, amount int) error {
	ct, err := s.Pool.Exec(ctx, `
		UPDATE products
		SET stock=$2, updated_at=now()
		WHERE name=$1 AND is_deleted=FALSE
	`, name, amount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, value, label, emoji, created_at
		FROM categories
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Value, &c.Label, &c.Emoji, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *CatalogStore) CategoryExists(ctx context.Context, value string) (bool, error) {
	var exists bool
	row := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE value=$1)`, value)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *CatalogStore) AddCategory(ctx context.Context, value, label, emoji string) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO categories (value, label, emoji)
		VALUES ($1,$2,$3)
	`, value, label, emoji)
	return err
}

func (s *CatalogStore) UpdateCategory(ctx context.Context, id int64, value, label, emoji string) error {
	ct, err := s.Pool.Exec(ctx, `
		UPDATE categories
		SET value=$2, label=$3, emoji=$4
		WHERE id=$1
	`, id, value, label, emoji)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory does not cascade: products keep their category string.
func (s *CatalogStore) DeleteCategory(ctx context.Context, id int64) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return err
}
