package lists

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/Kerhoff/shoplist/internal/models"
	"github.com/Kerhoff/shoplist/internal/repository"
)

type mockListRepository struct {
	mock.Mock
}

func (m *mockListRepository) Create(ctx context.Context, params repository.CreateListParams) (*models.List, error) {
	args := m.Called(ctx, params)
	list, _ := args.Get(0).(*models.List)
	return list, args.Error(1)
}

func (m *mockListRepository) FindByUser(ctx context.Context, userID string) ([]models.ListWithProductCount, error) {
	args := m.Called(ctx, userID)
	lists, _ := args.Get(0).([]models.ListWithProductCount)
	return lists, args.Error(1)
}

func (m *mockListRepository) FindByID(ctx context.Context, id string) (*models.List, error) {
	args := m.Called(ctx, id)
	list, _ := args.Get(0).(*models.List)
	return list, args.Error(1)
}

func (m *mockListRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (*models.List, error) {
	args := m.Called(ctx, id)
	list, _ := args.Get(0).(*models.List)
	return list, args.Error(1)
}

func (m *mockListRepository) FindByNameAndUserID(ctx context.Context, name, userID string) (*models.List, error) {
	args := m.Called(ctx, name, userID)
	list, _ := args.Get(0).(*models.List)
	return list, args.Error(1)
}

func (m *mockListRepository) Update(ctx context.Context, id string, params repository.UpdateListParams) error {
	return m.Called(ctx, id, params).Error(0)
}

func (m *mockListRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockListRepository) IncrementUsage(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockListRepository) AddProduct(ctx context.Context, listID, productID string, quantity float64) error {
	return m.Called(ctx, listID, productID, quantity).Error(0)
}

func (m *mockListRepository) RemoveProduct(ctx context.Context, listID, productID string) error {
	return m.Called(ctx, listID, productID).Error(0)
}

func (m *mockListRepository) UpdateProductQuantity(ctx context.Context, listID, productID string, quantity float64) error {
	return m.Called(ctx, listID, productID, quantity).Error(0)
}

func (m *mockListRepository) MarkProductAsPurchased(ctx context.Context, listID, productID string) error {
	return m.Called(ctx, listID, productID).Error(0)
}

func (m *mockListRepository) UnmarkProductAsPurchased(ctx context.Context, listID, productID string) error {
	return m.Called(ctx, listID, productID).Error(0)
}

func (m *mockListRepository) GetListProducts(ctx context.Context, listID string) ([]models.ListProductWithDetails, error) {
	args := m.Called(ctx, listID)
	items, _ := args.Get(0).([]models.ListProductWithDetails)
	return items, args.Error(1)
}

func (m *mockListRepository) GetPendingProducts(ctx context.Context, listID string) ([]models.ListProductWithDetails, error) {
	args := m.Called(ctx, listID)
	items, _ := args.Get(0).([]models.ListProductWithDetails)
	return items, args.Error(1)
}

func newTestUseCases(t *testing.T) (*UseCases, *mockListRepository) {
	t.Helper()
	repo := &mockListRepository{}
	logger, _ := test.NewNullLogger()
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return New(repo, logger, nil), repo
}
