// Package catalog holds the product catalog use cases.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/metrics"
	"github.com/Kerhoff/shoplist/internal/models"
	"github.com/Kerhoff/shoplist/internal/repository"
	"github.com/Kerhoff/shoplist/internal/validation"
)

const (
	OpCreateProduct       apperrors.Op = "create_product"
	OpGetProduct          apperrors.Op = "get_product"
	OpListProducts        apperrors.Op = "list_products"
	OpFindOrCreateProduct apperrors.Op = "find_or_create_product"
	OpDeleteProduct       apperrors.Op = "delete_product"
)

// CreateProductInput is the payload of a new catalog product.
type CreateProductInput struct {
	Name string      `json:"name" validate:"required,min=2,max=100"`
	Unit models.Unit `json:"unit" validate:"omitempty,oneof=kg g l ml un pct cx"`
}

// Service runs the catalog use cases.
type Service struct {
	repo     repository.ProductRepository
	validate *validation.Validator
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

// New creates a catalog service. m may be nil.
func New(repo repository.ProductRepository, logger *logrus.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, validate: validation.New(), logger: logger, metrics: m}
}

func (s *Service) observe(op apperrors.Op, start time.Time, err *error) {
	outcome := metrics.OutcomeOK
	if *err != nil {
		switch apperrors.CodeOf(*err) {
		case apperrors.CodeValidation:
			outcome = metrics.OutcomeInvalid
		case apperrors.CodeNotFound:
			outcome = metrics.OutcomeNotFound
		default:
			outcome = metrics.OutcomeError
		}
	}
	s.metrics.ObserveUseCase(string(op), outcome, time.Since(start))
}

// CreateProduct adds a product to the catalog. An empty unit defaults to
// pieces.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (_ *models.Product, err error) {
	defer s.observe(OpCreateProduct, time.Now(), &err)
	return s.create(ctx, OpCreateProduct, in)
}

func (s *Service) create(ctx context.Context, op apperrors.Op, in CreateProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(op, in); err != nil {
		return nil, err
	}
	if in.Unit == "" {
		in.Unit = models.DefaultUnit
	}

	product, err := s.repo.Create(ctx, repository.CreateProductParams{Name: in.Name, Unit: in.Unit})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	return product, nil
}

// GetProduct loads one product.
func (s *Service) GetProduct(ctx context.Context, id string) (_ *models.Product, err error) {
	defer s.observe(OpGetProduct, time.Now(), &err)

	id, err = s.validate.RequiredID(OpGetProduct, "productId", id)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFoundf(OpGetProduct, "product with ID %s not found", id)
	}
	return product, nil
}

// ListProducts returns the catalog sorted by name. The result is never nil.
func (s *Service) ListProducts(ctx context.Context) (_ []*models.Product, err error) {
	defer s.observe(OpListProducts, time.Now(), &err)

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, OpListProducts, "failed to fetch products")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

// FindOrCreateProduct returns the product named name, creating it with unit
// when the catalog has none.
func (s *Service) FindOrCreateProduct(ctx context.Context, name string, unit models.Unit) (_ *models.Product, err error) {
	defer s.observe(OpFindOrCreateProduct, time.Now(), &err)

	name = strings.TrimSpace(name)
	if err := s.validate.Var(OpFindOrCreateProduct, "name", name, "required"); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}
	return s.create(ctx, OpFindOrCreateProduct, CreateProductInput{Name: name, Unit: unit})
}

// DeleteProduct soft-deletes a product. Lists still referencing it stop
// showing the entry.
func (s *Service) DeleteProduct(ctx context.Context, id string) (err error) {
	defer s.observe(OpDeleteProduct, time.Now(), &err)

	id, err = s.validate.RequiredID(OpDeleteProduct, "productId", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
