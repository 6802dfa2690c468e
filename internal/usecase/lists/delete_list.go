package lists

import (
	"context"
	"time"
)

// DeleteList soft-deletes a list.
type DeleteList struct {
	deps
}

func (u *DeleteList) Execute(ctx context.Context, listID string) (err error) {
	defer u.observe(OpDeleteList, time.Now(), &err)

	listID, err = u.validate.RequiredID(OpDeleteList, "listId", listID)
	if err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, listID); err != nil {
		return err
	}

	u.logger.WithField("list_id", listID).Info("list deleted")
	return nil
}

// IncrementListUsage records one more use of a list.
type IncrementListUsage struct {
	deps
}

func (u *IncrementListUsage) Execute(ctx context.Context, listID string) (err error) {
	defer u.observe(OpIncrementListUsage, time.Now(), &err)

	listID, err = u.validate.RequiredID(OpIncrementListUsage, "listId", listID)
	if err != nil {
		return err
	}
	return u.repo.IncrementUsage(ctx, listID)
}
