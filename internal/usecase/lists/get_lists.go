package lists

import (
	"context"
	"time"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/dto"
)

// GetListByID loads one active list.
type GetListByID struct {
	deps
}

// Execute returns *ListNotFoundError when the list does not exist or was deleted.
func (u *GetListByID) Execute(ctx context.Context, listID string) (_ dto.ListDTO, err error) {
	defer u.observe(OpGetListByID, time.Now(), &err)

	listID, err = u.validate.RequiredID(OpGetListByID, "listId", listID)
	if err != nil {
		return dto.ListDTO{}, err
	}

	list, err := u.repo.FindByID(ctx, listID)
	if err != nil {
		return dto.ListDTO{}, err
	}
	if list == nil {
		return dto.ListDTO{}, &ListNotFoundError{ListID: listID}
	}

	return dto.ListFromEntity(list), nil
}

// GetUserLists loads the active lists of a user, most recent first.
type GetUserLists struct {
	deps
}

// Execute normalizes storage failures into a generic internal error.
func (u *GetUserLists) Execute(ctx context.Context, userID string) (_ []dto.ListWithProductCountDTO, err error) {
	defer u.observe(OpGetUserLists, time.Now(), &err)

	userID, err = u.validate.RequiredID(OpGetUserLists, "userId", userID)
	if err != nil {
		return nil, err
	}

	lists, err := u.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, OpGetUserLists, "failed to fetch lists")
	}

	return dto.ListsWithProductCountFromEntities(lists), nil
}
