package lists

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/dto"
)

// AddProductToList puts a product on a list. Adding a product that is
// already on the list creates a second entry.
type AddProductToList struct {
	deps
}

func (u *AddProductToList) Execute(ctx context.Context, listID, productID string, quantity float64) (err error) {
	defer u.observe(OpAddProductToList, time.Now(), &err)

	listID, productID, err = u.listAndProduct(OpAddProductToList, listID, productID)
	if err != nil {
		return err
	}
	if err := u.quantity(OpAddProductToList, quantity); err != nil {
		return err
	}

	if err := u.repo.AddProduct(ctx, listID, productID, quantity); err != nil {
		return err
	}

	u.logger.WithFields(logrus.Fields{
		"list_id":    listID,
		"product_id": productID,
		"quantity":   quantity,
	}).Debug("product added to list")
	return nil
}

// RemoveProductFromList takes every entry of a product off a list.
type RemoveProductFromList struct {
	deps
}

func (u *RemoveProductFromList) Execute(ctx context.Context, listID, productID string) (err error) {
	defer u.observe(OpRemoveProductFromList, time.Now(), &err)

	listID, productID, err = u.listAndProduct(OpRemoveProductFromList, listID, productID)
	if err != nil {
		return err
	}
	return u.repo.RemoveProduct(ctx, listID, productID)
}

// UpdateProductQuantity changes the quantity of a product on a list.
type UpdateProductQuantity struct {
	deps
}

func (u *UpdateProductQuantity) Execute(ctx context.Context, listID, productID string, quantity float64) (err error) {
	defer u.observe(OpUpdateProductQuantity, time.Now(), &err)

	listID, productID, err = u.listAndProduct(OpUpdateProductQuantity, listID, productID)
	if err != nil {
		return err
	}
	if err := u.quantity(OpUpdateProductQuantity, quantity); err != nil {
		return err
	}
	return u.repo.UpdateProductQuantity(ctx, listID, productID, quantity)
}

// MarkProductAsPurchased marks a product on a list as bought.
type MarkProductAsPurchased struct {
	deps
}

func (u *MarkProductAsPurchased) Execute(ctx context.Context, listID, productID string) (err error) {
	defer u.observe(OpMarkProductAsPurchased, time.Now(), &err)

	listID, productID, err = u.listAndProduct(OpMarkProductAsPurchased, listID, productID)
	if err != nil {
		return err
	}
	return u.repo.MarkProductAsPurchased(ctx, listID, productID)
}

// UnmarkProductAsPurchased puts a bought product back to pending.
type UnmarkProductAsPurchased struct {
	deps
}

func (u *UnmarkProductAsPurchased) Execute(ctx context.Context, listID, productID string) (err error) {
	defer u.observe(OpUnmarkProductAsPurchased, time.Now(), &err)

	listID, productID, err = u.listAndProduct(OpUnmarkProductAsPurchased, listID, productID)
	if err != nil {
		return err
	}
	return u.repo.UnmarkProductAsPurchased(ctx, listID, productID)
}

// GetListProducts returns every entry of a list, newest first.
type GetListProducts struct {
	deps
}

func (u *GetListProducts) Execute(ctx context.Context, listID string) (_ []dto.ListProductDTO, err error) {
	defer u.observe(OpGetListProducts, time.Now(), &err)

	listID, err = u.validate.RequiredID(OpGetListProducts, "listId", listID)
	if err != nil {
		return nil, err
	}

	items, err := u.repo.GetListProducts(ctx, listID)
	if err != nil {
		return nil, err
	}
	return dto.ListProductsFromEntities(items), nil
}

// GetPendingProducts returns the entries not yet purchased, newest first.
type GetPendingProducts struct {
	deps
}

func (u *GetPendingProducts) Execute(ctx context.Context, listID string) (_ []dto.ListProductDTO, err error) {
	defer u.observe(OpGetPendingProducts, time.Now(), &err)

	listID, err = u.validate.RequiredID(OpGetPendingProducts, "listId", listID)
	if err != nil {
		return nil, err
	}

	items, err := u.repo.GetPendingProducts(ctx, listID)
	if err != nil {
		return nil, err
	}
	return dto.ListProductsFromEntities(items), nil
}
