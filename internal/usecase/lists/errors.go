package lists

import (
	"errors"

	"github.com/Kerhoff/shoplist/internal/apperrors"
)

// Operation names, one per use case.
const (
	OpCreateList               apperrors.Op = "create_list"
	OpUpdateList               apperrors.Op = "update_list"
	OpDeleteList               apperrors.Op = "delete_list"
	OpGetListByID              apperrors.Op = "get_list_by_id"
	OpGetUserLists             apperrors.Op = "get_user_lists"
	OpIncrementListUsage       apperrors.Op = "increment_list_usage"
	OpAddProductToList         apperrors.Op = "add_product_to_list"
	OpRemoveProductFromList    apperrors.Op = "remove_product_from_list"
	OpUpdateProductQuantity    apperrors.Op = "update_product_quantity"
	OpMarkProductAsPurchased   apperrors.Op = "mark_product_as_purchased"
	OpUnmarkProductAsPurchased apperrors.Op = "unmark_product_as_purchased"
	OpGetListProducts          apperrors.Op = "get_list_products"
	OpGetPendingProducts       apperrors.Op = "get_pending_products"
)

// Validation sentinels, one per use case. errors.Is(err, ErrCreateListInvalid)
// matches only validation failures raised by CreateList.
var (
	ErrCreateListInvalid               = apperrors.Sentinel(apperrors.CodeValidation, OpCreateList)
	ErrUpdateListInvalid               = apperrors.Sentinel(apperrors.CodeValidation, OpUpdateList)
	ErrDeleteListInvalid               = apperrors.Sentinel(apperrors.CodeValidation, OpDeleteList)
	ErrGetListByIDInvalid              = apperrors.Sentinel(apperrors.CodeValidation, OpGetListByID)
	ErrGetUserListsInvalid             = apperrors.Sentinel(apperrors.CodeValidation, OpGetUserLists)
	ErrIncrementListUsageInvalid       = apperrors.Sentinel(apperrors.CodeValidation, OpIncrementListUsage)
	ErrAddProductToListInvalid         = apperrors.Sentinel(apperrors.CodeValidation, OpAddProductToList)
	ErrRemoveProductFromListInvalid    = apperrors.Sentinel(apperrors.CodeValidation, OpRemoveProductFromList)
	ErrUpdateProductQuantityInvalid    = apperrors.Sentinel(apperrors.CodeValidation, OpUpdateProductQuantity)
	ErrMarkProductAsPurchasedInvalid   = apperrors.Sentinel(apperrors.CodeValidation, OpMarkProductAsPurchased)
	ErrUnmarkProductAsPurchasedInvalid = apperrors.Sentinel(apperrors.CodeValidation, OpUnmarkProductAsPurchased)
	ErrGetListProductsInvalid          = apperrors.Sentinel(apperrors.CodeValidation, OpGetListProducts)
	ErrGetPendingProductsInvalid       = apperrors.Sentinel(apperrors.CodeValidation, OpGetPendingProducts)
)

// ErrDuplicateListName is wrapped by the CreateList validation error raised
// when the owner already has an active list with the same name.
var ErrDuplicateListName = errors.New("list name already in use")

// ListNotFoundError is returned by GetListByID when no active list has the
// requested id. It unwraps to a NOT_FOUND application error.
type ListNotFoundError struct {
	ListID string
}

func (e *ListNotFoundError) Error() string {
	return e.Unwrap().Error()
}

func (e *ListNotFoundError) Unwrap() error {
	return apperrors.NotFoundf(OpGetListByID, "list with ID %s not found", e.ListID).
		WithDetails(map[string]string{"list_id": e.ListID})
}
