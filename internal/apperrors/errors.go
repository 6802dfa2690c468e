// Package apperrors provides typed application errors shared by the use cases
// and the delivery layers.
//
// Every error carries a Code (what kind of failure) and an Op (which use case
// raised it). Callers discriminate with errors.Is against the sentinels:
//
//	if errors.Is(err, apperrors.ErrValidation) { ... }       // any validation failure
//	if errors.Is(err, lists.ErrCreateListInvalid) { ... }     // validation in CreateList only
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeValidation    Code = "VALIDATION"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeConflict      Code = "CONFLICT"
	CodeInternal      Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Op names the operation that produced an error.
type Op string

// Error is an application error with a code, the failing operation and an
// optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Op      Op     `json:"op,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = string(e.Op) + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error with the same code. When the target carries an Op,
// the Op must match as well.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Sentinels for errors.Is.
var (
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// Sentinel returns a matcher for errors of the given code raised by op.
func Sentinel(code Code, op Op) *Error {
	return &Error{Code: code, Op: op, Message: string(code)}
}

// Validation creates a validation error for op.
func Validation(op Op, msg string) *Error {
	return &Error{Code: CodeValidation, Op: op, Message: msg}
}

// Validationf creates a validation error with a formatted message.
func Validationf(op Op, format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(op Op, format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, op Op, msg string) *Error {
	return &Error{Code: code, Op: op, Message: msg, cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns a user-facing message for err. Errors outside the
// taxonomy are reported with fallback so storage details never leak.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
