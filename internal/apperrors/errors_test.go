package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

const opTest Op = "Test"

func TestError_IsMatchesCode(t *testing.T) {
	err := Validation(opTest, "name is required")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestError_IsMatchesOpWhenSentinelHasOne(t *testing.T) {
	err := Validation(opTest, "name is required")

	assert.True(t, errors.Is(err, Sentinel(CodeValidation, opTest)))
	assert.False(t, errors.Is(err, Sentinel(CodeValidation, "Other")))
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFoundf(opTest, "list %s not found", "l-1"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestError_CauseIsUnwrapped(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeInternal, opTest, "failed to fetch lists")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "Test: failed to fetch lists: disk full", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("???"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "quantity must be greater than zero",
		MessageOf(Validation(opTest, "quantity must be greater than zero"), "oops"))
	assert.Equal(t, "oops", MessageOf(errors.New("pq: connection refused"), "oops"))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
