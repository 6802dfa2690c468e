// Package lists holds the list use cases. Each use case validates its input
// and fails before touching the repository when the input is invalid.
package lists

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/metrics"
	"github.com/Kerhoff/shoplist/internal/repository"
	"github.com/Kerhoff/shoplist/internal/validation"
)

// Field limits.
const (
	MinListNameLength        = 3
	MaxListNameLength        = 100
	MinListDescriptionLength = 3
	MaxListDescriptionLength = 500
)

var (
	nameMin        = fmt.Sprintf("min=%d", MinListNameLength)
	nameMax        = fmt.Sprintf("max=%d", MaxListNameLength)
	descriptionMin = fmt.Sprintf("min=%d", MinListDescriptionLength)
	descriptionMax = fmt.Sprintf("max=%d", MaxListDescriptionLength)
)

// UseCases bundles every list use case around one repository.
type UseCases struct {
	CreateList               *CreateList
	UpdateList               *UpdateList
	DeleteList               *DeleteList
	GetListByID              *GetListByID
	GetUserLists             *GetUserLists
	IncrementListUsage       *IncrementListUsage
	AddProductToList         *AddProductToList
	RemoveProductFromList    *RemoveProductFromList
	UpdateProductQuantity    *UpdateProductQuantity
	MarkProductAsPurchased   *MarkProductAsPurchased
	UnmarkProductAsPurchased *UnmarkProductAsPurchased
	GetListProducts          *GetListProducts
	GetPendingProducts       *GetPendingProducts
}

// New creates every list use case. m may be nil.
func New(repo repository.ListRepository, logger *logrus.Logger, m *metrics.Metrics) *UseCases {
	d := deps{repo: repo, validate: validation.New(), logger: logger, metrics: m}
	return &UseCases{
		CreateList:               &CreateList{d},
		UpdateList:               &UpdateList{d},
		DeleteList:               &DeleteList{d},
		GetListByID:              &GetListByID{d},
		GetUserLists:             &GetUserLists{d},
		IncrementListUsage:       &IncrementListUsage{d},
		AddProductToList:         &AddProductToList{d},
		RemoveProductFromList:    &RemoveProductFromList{d},
		UpdateProductQuantity:    &UpdateProductQuantity{d},
		MarkProductAsPurchased:   &MarkProductAsPurchased{d},
		UnmarkProductAsPurchased: &UnmarkProductAsPurchased{d},
		GetListProducts:          &GetListProducts{d},
		GetPendingProducts:       &GetPendingProducts{d},
	}
}

// deps is shared by every use case.
type deps struct {
	repo     repository.ListRepository
	validate *validation.Validator
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

// observe records the outcome of one execution and logs unexpected failures.
func (d deps) observe(op apperrors.Op, start time.Time, err *error) {
	outcome := metrics.OutcomeOK
	if *err != nil {
		switch apperrors.CodeOf(*err) {
		case apperrors.CodeValidation:
			outcome = metrics.OutcomeInvalid
		case apperrors.CodeNotFound:
			outcome = metrics.OutcomeNotFound
		default:
			outcome = metrics.OutcomeError
			d.logger.WithError(*err).WithField("op", op).Error("use case failed")
		}
	}
	d.metrics.ObserveUseCase(string(op), outcome, time.Since(start))
}

// listAndProduct validates the identifier pair shared by the list entry use cases.
func (d deps) listAndProduct(op apperrors.Op, listID, productID string) (string, string, error) {
	listID, err := d.validate.RequiredID(op, "listId", listID)
	if err != nil {
		return "", "", err
	}
	productID, err = d.validate.RequiredID(op, "productId", productID)
	if err != nil {
		return "", "", err
	}
	return listID, productID, nil
}

func (d deps) quantity(op apperrors.Op, quantity float64) error {
	return d.validate.Var(op, "quantity", quantity, "gt=0,whole")
}

// listName checks the bounds of a list name: the trimmed name must be long
// enough and the raw name short enough. It returns the trimmed name.
func (d deps) listName(op apperrors.Op, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := d.validate.Var(op, "name", trimmed, "required"); err != nil {
		return "", err
	}
	if err := d.validate.Var(op, "name", trimmed, nameMin); err != nil {
		return "", err
	}
	if err := d.validate.Var(op, "name", name, nameMax); err != nil {
		return "", err
	}
	return trimmed, nil
}

func (d deps) listDescription(op apperrors.Op, description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if err := d.validate.Var(op, "description", trimmed, "required"); err != nil {
		return "", err
	}
	if err := d.validate.Var(op, "description", trimmed, descriptionMin); err != nil {
		return "", err
	}
	if err := d.validate.Var(op, "description", description, descriptionMax); err != nil {
		return "", err
	}
	return trimmed, nil
}
