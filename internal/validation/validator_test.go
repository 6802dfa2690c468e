package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/shoplist/internal/apperrors"
)

const opTest apperrors.Op = "test"

type request struct {
	Name     string  `json:"name" validate:"required,min=3,max=10"`
	Quantity float64 `json:"quantity" validate:"gt=0,whole"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(opTest, request{Name: "Milk", Quantity: 2}))
}

func TestStruct_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(opTest, request{Name: "Mi", Quantity: 1.5})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, opTest, appErr.Op)
	assert.Equal(t, "name must be at least 3 characters", appErr.Message)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a whole number", details["quantity"])
}

func TestVar_Whole(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var(opTest, "quantity", 3.0, "gt=0,whole"))
	assert.NoError(t, v.Var(opTest, "quantity", 3, "gt=0,whole"))

	err := v.Var(opTest, "quantity", 0.5, "gt=0,whole")
	assert.ErrorContains(t, err, "quantity must be a whole number")

	err = v.Var(opTest, "quantity", -1.0, "gt=0,whole")
	assert.ErrorContains(t, err, "quantity must be greater than 0")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestRequiredID(t *testing.T) {
	v := New()

	id, err := v.RequiredID(opTest, "listId", "  abc ")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = v.RequiredID(opTest, "listId", "   ")
	assert.ErrorContains(t, err, "listId is required")
	assert.True(t, errors.Is(err, apperrors.Sentinel(apperrors.CodeValidation, opTest)))
}
