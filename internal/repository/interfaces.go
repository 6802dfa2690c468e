package repository

import (
	"context"

	"github.com/Kerhoff/shoplist/internal/models"
)

// ListRepository defines the interface for list and list-product operations.
// Lookups return nil, nil when no matching non-deleted row exists.
type ListRepository interface {
	Create(ctx context.Context, params CreateListParams) (*models.List, error)
	FindByUser(ctx context.Context, userID string) ([]models.ListWithProductCount, error)
	FindByID(ctx context.Context, id string) (*models.List, error)
	FindByIDIncludingDeleted(ctx context.Context, id string) (*models.List, error)
	FindByNameAndUserID(ctx context.Context, name, userID string) (*models.List, error)
	Update(ctx context.Context, id string, params UpdateListParams) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error

	AddProduct(ctx context.Context, listID, productID string, quantity float64) error
	RemoveProduct(ctx context.Context, listID, productID string) error
	UpdateProductQuantity(ctx context.Context, listID, productID string, quantity float64) error
	MarkProductAsPurchased(ctx context.Context, listID, productID string) error
	UnmarkProductAsPurchased(ctx context.Context, listID, productID string) error
	GetListProducts(ctx context.Context, listID string) ([]models.ListProductWithDetails, error)
	GetPendingProducts(ctx context.Context, listID string) ([]models.ListProductWithDetails, error)
}

// ProductRepository defines the interface for the product catalog.
type ProductRepository interface {
	Create(ctx context.Context, params CreateProductParams) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// CreateListParams holds the fields of a new list.
type CreateListParams struct {
	Name        string
	Description string
	CreatedBy   string
	IsPublic    *bool
	CanBeShared *bool
}

// UpdateListParams holds a partial list update. Nil fields are left untouched.
type UpdateListParams struct {
	Name        *string
	Description *string
	IsActive    *bool
	IsPublic    *bool
	CanBeShared *bool
}

// CreateProductParams holds the fields of a new catalog product.
type CreateProductParams struct {
	Name string
	Unit models.Unit
}
