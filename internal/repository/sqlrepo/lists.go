package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/shoplist/internal/models"
	"github.com/Kerhoff/shoplist/internal/repository"
)

const listColumns = `l.id, l.name, l.description, l.used_times, l.is_public, l.can_be_shared,
		l.is_active, l.created_by, l.created_at, l.updated_at, l.deleted_at`

type listRepository struct {
	base
}

// NewListRepository creates a new list repository.
func NewListRepository(db *sql.DB, dialect Dialect, opts ...Option) repository.ListRepository {
	return &listRepository{base: base{db: db, dialect: dialect, opts: buildOptions(opts)}}
}

func (r *listRepository) Create(ctx context.Context, params repository.CreateListParams) (_ *models.List, err error) {
	defer r.observe("lists.create", time.Now(), &err)

	var description *string
	if params.Description != "" {
		description = &params.Description
	}
	list := models.NewList(models.ListAttrs{
		ID:          r.opts.newID(),
		Name:        params.Name,
		Description: description,
		IsPublic:    params.IsPublic != nil && *params.IsPublic,
		CanBeShared: params.CanBeShared != nil && *params.CanBeShared,
		CreatedAt:   fromMillis(r.nowMillis()),
		CreatedBy:   params.CreatedBy,
	})

	query := `
		INSERT INTO lists (id, name, description, used_times, is_active, is_public, can_be_shared, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, r.q(query),
		list.ID,
		list.Name,
		list.Description,
		list.UsedTimes,
		list.IsActive,
		list.IsPublic,
		list.CanBeShared,
		list.CreatedBy,
		toMillis(list.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return list, nil
}

func (r *listRepository) FindByUser(ctx context.Context, userID string) (_ []models.ListWithProductCount, err error) {
	defer r.observe("lists.find_by_user", time.Now(), &err)

	query := `
		SELECT ` + listColumns + `,
			(SELECT COUNT(*) FROM list_products lp
			 WHERE lp.list_id = l.id AND lp.removed_at IS NULL) AS product_count
		FROM lists l
		WHERE l.created_by = ? AND l.is_active = ? AND l.deleted_at IS NULL
		ORDER BY l.created_at DESC`

	rows, err := r.db.QueryContext(ctx, r.q(query), userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists by user: %w", err)
	}
	defer rows.Close()

	var lists []models.ListWithProductCount
	for rows.Next() {
		var item models.ListWithProductCount
		list, err := scanList(rows, &item.ProductCount)
		if err != nil {
			return nil, err
		}
		item.List = *list
		lists = append(lists, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return lists, nil
}

func (r *listRepository) FindByID(ctx context.Context, id string) (_ *models.List, err error) {
	defer r.observe("lists.find_by_id", time.Now(), &err)

	query := `SELECT ` + listColumns + ` FROM lists l WHERE l.id = ? AND l.deleted_at IS NULL`
	return r.findOne(ctx, "by ID", query, id)
}

func (r *listRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (_ *models.List, err error) {
	defer r.observe("lists.find_by_id_including_deleted", time.Now(), &err)

	query := `SELECT ` + listColumns + ` FROM lists l WHERE l.id = ?`
	return r.findOne(ctx, "by ID", query, id)
}

func (r *listRepository) FindByNameAndUserID(ctx context.Context, name, userID string) (_ *models.List, err error) {
	defer r.observe("lists.find_by_name_and_user", time.Now(), &err)

	query := `
		SELECT ` + listColumns + `
		FROM lists l
		WHERE l.name = ? AND l.created_by = ? AND l.is_active = ? AND l.deleted_at IS NULL
		ORDER BY l.created_at DESC
		LIMIT 1`
	return r.findOne(ctx, "by name", query, name, userID, true)
}

func (r *listRepository) findOne(ctx context.Context, what, query string, args ...any) (*models.List, error) {
	row := r.db.QueryRowContext(ctx, r.q(query), args...)
	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get list %s: %w", what, err)
	}
	return list, nil
}

func (r *listRepository) Update(ctx context.Context, id string, params repository.UpdateListParams) (err error) {
	defer r.observe("lists.update", time.Now(), &err)

	var (
		sets []string
		args []any
	)
	if params.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *params.Name)
	}
	if params.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *params.Description)
	}
	if params.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *params.IsActive)
	}
	if params.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, *params.IsPublic)
	}
	if params.CanBeShared != nil {
		sets = append(sets, "can_be_shared = ?")
		args = append(args, *params.CanBeShared)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.nowMillis(), id)

	query := `UPDATE lists SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	if _, err = r.db.ExecContext(ctx, r.q(query), args...); err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("lists.delete", time.Now(), &err)

	now := r.nowMillis()
	query := `UPDATE lists SET deleted_at = ?, updated_at = ? WHERE id = ?`

	if _, err = r.db.ExecContext(ctx, r.q(query), now, now, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

func (r *listRepository) IncrementUsage(ctx context.Context, id string) (err error) {
	defer r.observe("lists.increment_usage", time.Now(), &err)

	query := `UPDATE lists SET used_times = used_times + 1, updated_at = ? WHERE id = ?`

	if _, err = r.db.ExecContext(ctx, r.q(query), r.nowMillis(), id); err != nil {
		return fmt.Errorf("failed to increment list usage: %w", err)
	}
	return nil
}

// AddProduct inserts a new association. An existing association for the same
// product is left in place, so a list may hold the product twice.
func (r *listRepository) AddProduct(ctx context.Context, listID, productID string, quantity float64) (err error) {
	defer r.observe("lists.add_product", time.Now(), &err)

	query := `
		INSERT INTO list_products (id, list_id, product_id, quantity, is_purchased, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, r.q(query),
		r.opts.newID(),
		listID,
		productID,
		quantity,
		false,
		r.nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("failed to add product to list: %w", err)
	}
	return nil
}

func (r *listRepository) RemoveProduct(ctx context.Context, listID, productID string) (err error) {
	defer r.observe("lists.remove_product", time.Now(), &err)

	now := r.nowMillis()
	query := `
		UPDATE list_products
		SET removed_at = ?, updated_at = ?
		WHERE list_id = ? AND product_id = ? AND removed_at IS NULL`

	if _, err = r.db.ExecContext(ctx, r.q(query), now, now, listID, productID); err != nil {
		return fmt.Errorf("failed to remove product from list: %w", err)
	}
	return nil
}

func (r *listRepository) UpdateProductQuantity(ctx context.Context, listID, productID string, quantity float64) (err error) {
	defer r.observe("lists.update_product_quantity", time.Now(), &err)

	query := `
		UPDATE list_products
		SET quantity = ?, updated_at = ?
		WHERE list_id = ? AND product_id = ? AND removed_at IS NULL`

	if _, err = r.db.ExecContext(ctx, r.q(query), quantity, r.nowMillis(), listID, productID); err != nil {
		return fmt.Errorf("failed to update product quantity: %w", err)
	}
	return nil
}

func (r *listRepository) MarkProductAsPurchased(ctx context.Context, listID, productID string) (err error) {
	defer r.observe("lists.mark_purchased", time.Now(), &err)

	now := r.nowMillis()
	query := `
		UPDATE list_products
		SET is_purchased = ?, purchased_at = ?, updated_at = ?
		WHERE list_id = ? AND product_id = ? AND removed_at IS NULL`

	if _, err = r.db.ExecContext(ctx, r.q(query), true, now, now, listID, productID); err != nil {
		return fmt.Errorf("failed to mark product as purchased: %w", err)
	}
	return nil
}

func (r *listRepository) UnmarkProductAsPurchased(ctx context.Context, listID, productID string) (err error) {
	defer r.observe("lists.unmark_purchased", time.Now(), &err)

	query := `
		UPDATE list_products
		SET is_purchased = ?, purchased_at = NULL, updated_at = ?
		WHERE list_id = ? AND product_id = ? AND removed_at IS NULL`

	if _, err = r.db.ExecContext(ctx, r.q(query), false, r.nowMillis(), listID, productID); err != nil {
		return fmt.Errorf("failed to unmark product as purchased: %w", err)
	}
	return nil
}

func (r *listRepository) GetListProducts(ctx context.Context, listID string) (_ []models.ListProductWithDetails, err error) {
	defer r.observe("lists.get_list_products", time.Now(), &err)
	return r.listProducts(ctx, listID, false)
}

func (r *listRepository) GetPendingProducts(ctx context.Context, listID string) (_ []models.ListProductWithDetails, err error) {
	defer r.observe("lists.get_pending_products", time.Now(), &err)
	return r.listProducts(ctx, listID, true)
}

func (r *listRepository) listProducts(ctx context.Context, listID string, onlyPending bool) ([]models.ListProductWithDetails, error) {
	query := `
		SELECT lp.id, lp.quantity, lp.is_purchased, lp.added_at, p.id, p.name, p.unit
		FROM list_products lp
		INNER JOIN products p ON p.id = lp.product_id
		WHERE lp.list_id = ? AND lp.removed_at IS NULL AND p.deleted_at IS NULL`
	args := []any{listID}

	if onlyPending {
		query += " AND lp.is_purchased = ?"
		args = append(args, false)
	}

	query += " ORDER BY lp.added_at DESC"

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query list products: %w", err)
	}
	defer rows.Close()

	var items []models.ListProductWithDetails
	for rows.Next() {
		var (
			item    models.ListProductWithDetails
			addedAt int64
			unit    string
		)
		if err := rows.Scan(
			&item.ID,
			&item.Quantity,
			&item.IsPurchased,
			&addedAt,
			&item.Product.ID,
			&item.Product.Name,
			&unit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan list product: %w", err)
		}
		item.AddedAt = fromMillis(addedAt)
		item.Product.Unit = models.Unit(unit)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list products: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanList reads listColumns followed by any extra destinations.
func scanList(s scanner, extra ...any) (*models.List, error) {
	var (
		id, name, createdBy   string
		description           sql.NullString
		usedTimes             int
		isPublic, canBeShared bool
		isActive              bool
		createdAt             int64
		updatedAt, deletedAt  sql.NullInt64
	)
	dest := []any{
		&id, &name, &description, &usedTimes, &isPublic, &canBeShared,
		&isActive, &createdBy, &createdAt, &updatedAt, &deletedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan list: %w", err)
	}

	return models.NewList(models.ListAttrs{
		ID:          id,
		Name:        name,
		Description: nullString(description),
		UsedTimes:   usedTimes,
		IsPublic:    isPublic,
		CanBeShared: canBeShared,
		IsActive:    &isActive,
		CreatedAt:   fromMillis(createdAt),
		UpdatedAt:   nullMillis(updatedAt),
		DeletedAt:   nullMillis(deletedAt),
		CreatedBy:   createdBy,
	}), nil
}
