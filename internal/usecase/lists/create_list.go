package lists

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/dto"
	"github.com/Kerhoff/shoplist/internal/repository"
)

// CreateListInput is the payload of CreateList.
type CreateListInput struct {
	Name        string
	Description string
	CreatedBy   string
	IsPublic    *bool
	CanBeShared *bool
}

// CreateList creates a list for its owner. Names are unique per owner among
// active lists.
type CreateList struct {
	deps
}

// Execute validates in and creates the list. Name and description are trimmed
// before they are stored.
func (u *CreateList) Execute(ctx context.Context, in CreateListInput) (_ dto.ListDTO, err error) {
	defer u.observe(OpCreateList, time.Now(), &err)

	name, err := u.listName(OpCreateList, in.Name)
	if err != nil {
		return dto.ListDTO{}, err
	}
	createdBy, err := u.validate.RequiredID(OpCreateList, "createdBy", in.CreatedBy)
	if err != nil {
		return dto.ListDTO{}, err
	}

	existing, err := u.repo.FindByNameAndUserID(ctx, name, createdBy)
	if err != nil {
		return dto.ListDTO{}, err
	}
	if existing != nil {
		return dto.ListDTO{}, apperrors.Wrap(ErrDuplicateListName, apperrors.CodeValidation, OpCreateList,
			"you already have a list with this name")
	}

	f := false
	params := repository.CreateListParams{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   createdBy,
		IsPublic:    &f,
		CanBeShared: &f,
	}
	if in.IsPublic != nil {
		params.IsPublic = in.IsPublic
	}
	if in.CanBeShared != nil {
		params.CanBeShared = in.CanBeShared
	}

	list, err := u.repo.Create(ctx, params)
	if err != nil {
		return dto.ListDTO{}, err
	}

	u.logger.WithFields(logrus.Fields{"list_id": list.ID, "created_by": createdBy}).Info("list created")
	return dto.ListFromEntity(list), nil
}
