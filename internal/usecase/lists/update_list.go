package lists

import (
	"context"
	"time"

	"github.com/Kerhoff/shoplist/internal/repository"
)

// UpdateListInput is a partial update. Nil fields are left untouched.
type UpdateListInput struct {
	Name        *string
	Description *string
	IsActive    *bool
	IsPublic    *bool
	CanBeShared *bool
}

// UpdateList changes the supplied fields of a list.
type UpdateList struct {
	deps
}

// Execute validates the supplied fields and forwards the trimmed values.
func (u *UpdateList) Execute(ctx context.Context, listID string, in UpdateListInput) (err error) {
	defer u.observe(OpUpdateList, time.Now(), &err)

	listID, err = u.validate.RequiredID(OpUpdateList, "listId", listID)
	if err != nil {
		return err
	}

	params := repository.UpdateListParams{
		IsActive:    in.IsActive,
		IsPublic:    in.IsPublic,
		CanBeShared: in.CanBeShared,
	}
	if in.Name != nil {
		name, err := u.listName(OpUpdateList, *in.Name)
		if err != nil {
			return err
		}
		params.Name = &name
	}
	if in.Description != nil {
		description, err := u.listDescription(OpUpdateList, *in.Description)
		if err != nil {
			return err
		}
		params.Description = &description
	}

	return u.repo.Update(ctx, listID, params)
}
