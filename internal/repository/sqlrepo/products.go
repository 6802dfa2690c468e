package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/shoplist/internal/models"
	"github.com/Kerhoff/shoplist/internal/repository"
)

const productColumns = `id, name, unit, created_at, updated_at, deleted_at`

type productRepository struct {
	base
}

// NewProductRepository creates a new product catalog repository.
func NewProductRepository(db *sql.DB, dialect Dialect, opts ...Option) repository.ProductRepository {
	return &productRepository{base: base{db: db, dialect: dialect, opts: buildOptions(opts)}}
}

func (r *productRepository) Create(ctx context.Context, params repository.CreateProductParams) (_ *models.Product, err error) {
	defer r.observe("products.create", time.Now(), &err)

	product := &models.Product{
		ID:        r.opts.newID(),
		Name:      params.Name,
		Unit:      params.Unit,
		CreatedAt: fromMillis(r.nowMillis()),
	}
	if product.Unit == "" {
		product.Unit = models.DefaultUnit
	}

	query := `INSERT INTO products (id, name, unit, created_at) VALUES (?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, r.q(query),
		product.ID,
		product.Name,
		string(product.Unit),
		toMillis(product.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (_ *models.Product, err error) {
	defer r.observe("products.find_by_id", time.Now(), &err)

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? AND deleted_at IS NULL`
	return r.findOne(ctx, "by ID", query, id)
}

// FindByName matches the name case-insensitively.
func (r *productRepository) FindByName(ctx context.Context, name string) (_ *models.Product, err error) {
	defer r.observe("products.find_by_name", time.Now(), &err)

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE LOWER(name) = LOWER(?) AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT 1`
	return r.findOne(ctx, "by name", query, name)
}

func (r *productRepository) findOne(ctx context.Context, what, query string, args ...any) (*models.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, r.q(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %s: %w", what, err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) (_ []*models.Product, err error) {
	defer r.observe("products.list", time.Now(), &err)

	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, r.q(query))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("products.delete", time.Now(), &err)

	now := r.nowMillis()
	query := `UPDATE products SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	if _, err = r.db.ExecContext(ctx, r.q(query), now, now, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func scanProduct(s scanner) (*models.Product, error) {
	var (
		product              models.Product
		unit                 string
		createdAt            int64
		updatedAt, deletedAt sql.NullInt64
	)
	if err := s.Scan(&product.ID, &product.Name, &unit, &createdAt, &updatedAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	product.Unit = models.Unit(unit)
	product.CreatedAt = fromMillis(createdAt)
	product.UpdatedAt = nullMillis(updatedAt)
	product.DeletedAt = nullMillis(deletedAt)
	return &product, nil
}
