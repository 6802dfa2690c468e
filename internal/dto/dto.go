// Package dto holds the transport representations of lists and list entries
// and the mappers from and to the domain models.
package dto

import (
	"time"

	"github.com/Kerhoff/shoplist/internal/models"
)

// ListDTO is the transport form of a list.
type ListDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	UsedTimes   int        `json:"used_times"`
	IsPublic    bool       `json:"is_public"`
	CanBeShared bool       `json:"can_be_shared"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedBy   string     `json:"created_by"`
	UpdatedBy   *string    `json:"updated_by"`
	DeletedBy   *string    `json:"deleted_by"`
}

// ListWithProductCountDTO is a list with its number of entries.
type ListWithProductCountDTO struct {
	ListDTO
	ProductCount int `json:"product_count"`
}

// ProductSummaryDTO is the catalog part of a list entry.
type ProductSummaryDTO struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Unit models.Unit `json:"unit"`
}

// ListProductDTO is a list entry with its product.
type ListProductDTO struct {
	ID          string            `json:"id"`
	Quantity    float64           `json:"quantity"`
	IsPurchased bool              `json:"is_purchased"`
	AddedAt     time.Time         `json:"added_at"`
	Product     ProductSummaryDTO `json:"product"`
}

// ListFromEntity maps a list entity to its DTO. The DTO shares no pointers
// with the entity.
func ListFromEntity(l *models.List) ListDTO {
	rec := l.Record()
	return ListDTO{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		UsedTimes:   rec.UsedTimes,
		IsPublic:    rec.IsPublic,
		CanBeShared: rec.CanBeShared,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		DeletedAt:   rec.DeletedAt,
		CreatedBy:   rec.CreatedBy,
		UpdatedBy:   rec.UpdatedBy,
		DeletedBy:   rec.DeletedBy,
	}
}

// ListToEntity rebuilds an entity from a DTO.
func ListToEntity(d ListDTO) *models.List {
	active := d.IsActive
	return models.NewList(models.ListAttrs{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		UsedTimes:   d.UsedTimes,
		IsPublic:    d.IsPublic,
		CanBeShared: d.CanBeShared,
		IsActive:    &active,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		DeletedAt:   d.DeletedAt,
		CreatedBy:   d.CreatedBy,
		UpdatedBy:   d.UpdatedBy,
		DeletedBy:   d.DeletedBy,
	})
}

// ListWithProductCountFromEntity maps a counted list.
func ListWithProductCountFromEntity(l *models.ListWithProductCount) ListWithProductCountDTO {
	return ListWithProductCountDTO{
		ListDTO:      ListFromEntity(&l.List),
		ProductCount: l.ProductCount,
	}
}

// ListsWithProductCountFromEntities maps a slice of counted lists. The result
// is never nil.
func ListsWithProductCountFromEntities(lists []models.ListWithProductCount) []ListWithProductCountDTO {
	out := make([]ListWithProductCountDTO, 0, len(lists))
	for i := range lists {
		out = append(out, ListWithProductCountFromEntity(&lists[i]))
	}
	return out
}

// ListProductFromEntity maps a list entry.
func ListProductFromEntity(p models.ListProductWithDetails) ListProductDTO {
	return ListProductDTO{
		ID:          p.ID,
		Quantity:    p.Quantity,
		IsPurchased: p.IsPurchased,
		AddedAt:     p.AddedAt,
		Product: ProductSummaryDTO{
			ID:   p.Product.ID,
			Name: p.Product.Name,
			Unit: p.Product.Unit,
		},
	}
}

// ListProductsFromEntities maps a slice of list entries. The result is never nil.
func ListProductsFromEntities(items []models.ListProductWithDetails) []ListProductDTO {
	out := make([]ListProductDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ListProductFromEntity(item))
	}
	return out
}

// Clone returns a deep copy of d.
func (d ListDTO) Clone() ListDTO {
	return ListFromEntity(ListToEntity(d))
}
