package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/models"
	"github.com/Kerhoff/shoplist/internal/repository"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, params repository.CreateProductParams) (*models.Product, error) {
	args := m.Called(ctx, params)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(t *testing.T) (*Service, *mockProductRepository) {
	t.Helper()
	repo := &mockProductRepository{}
	logger, _ := test.NewNullLogger()
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return New(repo, logger, nil), repo
}

func TestCreateProduct_Defaults(t *testing.T) {
	svc, repo := newTestService(t)
	repo.On("Create", mock.Anything, repository.CreateProductParams{Name: "Soap", Unit: models.UnitPiece}).
		Return(&models.Product{ID: "p-1", Name: "Soap", Unit: models.UnitPiece}, nil)

	p, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "  Soap "})

	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	cases := map[string]CreateProductInput{
		"short name":   {Name: " a "},
		"unknown unit": {Name: "Rice", Unit: "lb"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newTestService(t)

			_, err := svc.CreateProduct(context.Background(), in)

			assert.True(t, errors.Is(err, apperrors.Sentinel(apperrors.CodeValidation, OpCreateProduct)))
		})
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, repo := newTestService(t)
	repo.On("FindByID", mock.Anything, "p-9").Return(nil, nil)

	_, err := svc.GetProduct(context.Background(), "p-9")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListProducts_NeverNil(t *testing.T) {
	svc, repo := newTestService(t)
	repo.On("List", mock.Anything).Return(nil, nil)

	products, err := svc.ListProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
}

func TestFindOrCreateProduct(t *testing.T) {
	svc, repo := newTestService(t)
	milk := &models.Product{ID: "p-1", Name: "Milk", Unit: models.UnitLiter}
	repo.On("FindByName", mock.Anything, "milk").Return(milk, nil).Once()
	repo.On("FindByName", mock.Anything, "Bread").Return(nil, nil).Once()
	repo.On("Create", mock.Anything, repository.CreateProductParams{Name: "Bread", Unit: models.UnitPiece}).
		Return(&models.Product{ID: "p-2", Name: "Bread", Unit: models.UnitPiece}, nil).Once()

	found, err := svc.FindOrCreateProduct(context.Background(), " milk ", "")
	require.NoError(t, err)
	assert.Same(t, milk, found)

	created, err := svc.FindOrCreateProduct(context.Background(), "Bread", "")
	require.NoError(t, err)
	assert.Equal(t, "p-2", created.ID)

	_, err = svc.FindOrCreateProduct(context.Background(), "  ", "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestDeleteProduct(t *testing.T) {
	svc, repo := newTestService(t)
	repo.On("Delete", mock.Anything, "p-1").Return(nil)

	assert.NoError(t, svc.DeleteProduct(context.Background(), " p-1 "))
	assert.Error(t, svc.DeleteProduct(context.Background(), ""))
}
