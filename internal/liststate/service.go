package liststate

import (
	"context"

	"github.com/Kerhoff/shoplist/internal/dto"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
)

// Service is the set of list operations the store drives.
type Service interface {
	GetUserLists(ctx context.Context, userID string) ([]dto.ListWithProductCountDTO, error)
	GetListByID(ctx context.Context, listID string) (dto.ListDTO, error)
	GetListProducts(ctx context.Context, listID string) ([]dto.ListProductDTO, error)
	CreateList(ctx context.Context, in lists.CreateListInput) (dto.ListDTO, error)
	UpdateList(ctx context.Context, listID string, in lists.UpdateListInput) error
	DeleteList(ctx context.Context, listID string) error
	IncrementListUsage(ctx context.Context, listID string) error
	AddProductToList(ctx context.Context, listID, productID string, quantity float64) error
	RemoveProductFromList(ctx context.Context, listID, productID string) error
	UpdateProductQuantity(ctx context.Context, listID, productID string, quantity float64) error
	MarkProductAsPurchased(ctx context.Context, listID, productID string) error
	UnmarkProductAsPurchased(ctx context.Context, listID, productID string) error
}

type useCaseService struct {
	uc *lists.UseCases
}

// NewService exposes the list use cases as a Service.
func NewService(uc *lists.UseCases) Service {
	return useCaseService{uc: uc}
}

func (s useCaseService) GetUserLists(ctx context.Context, userID string) ([]dto.ListWithProductCountDTO, error) {
	return s.uc.GetUserLists.Execute(ctx, userID)
}

func (s useCaseService) GetListByID(ctx context.Context, listID string) (dto.ListDTO, error) {
	return s.uc.GetListByID.Execute(ctx, listID)
}

func (s useCaseService) GetListProducts(ctx context.Context, listID string) ([]dto.ListProductDTO, error) {
	return s.uc.GetListProducts.Execute(ctx, listID)
}

func (s useCaseService) CreateList(ctx context.Context, in lists.CreateListInput) (dto.ListDTO, error) {
	return s.uc.CreateList.Execute(ctx, in)
}

func (s useCaseService) UpdateList(ctx context.Context, listID string, in lists.UpdateListInput) error {
	return s.uc.UpdateList.Execute(ctx, listID, in)
}

func (s useCaseService) DeleteList(ctx context.Context, listID string) error {
	return s.uc.DeleteList.Execute(ctx, listID)
}

func (s useCaseService) IncrementListUsage(ctx context.Context, listID string) error {
	return s.uc.IncrementListUsage.Execute(ctx, listID)
}

func (s useCaseService) AddProductToList(ctx context.Context, listID, productID string, quantity float64) error {
	return s.uc.AddProductToList.Execute(ctx, listID, productID, quantity)
}

func (s useCaseService) RemoveProductFromList(ctx context.Context, listID, productID string) error {
	return s.uc.RemoveProductFromList.Execute(ctx, listID, productID)
}

func (s useCaseService) UpdateProductQuantity(ctx context.Context, listID, productID string, quantity float64) error {
	return s.uc.UpdateProductQuantity.Execute(ctx, listID, productID, quantity)
}

func (s useCaseService) MarkProductAsPurchased(ctx context.Context, listID, productID string) error {
	return s.uc.MarkProductAsPurchased.Execute(ctx, listID, productID)
}

func (s useCaseService) UnmarkProductAsPurchased(ctx context.Context, listID, productID string) error {
	return s.uc.UnmarkProductAsPurchased.Execute(ctx, listID, productID)
}
