// Package apperror defines the failure taxonomy shared by the product
// engines. Every error carries the HTTP status the transport should answer
// with, so handlers map errors with a single errors.As.
package apperror

import (
	"fmt"
	"net/http"
)

// AppError is implemented by every error in this package.
type AppError interface {
	error
	HTTPStatus() int
}

// NotFoundError is returned for an unknown identifier or an empty listing.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string   { return e.Msg }
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// NewNotFound creates a NotFoundError.
func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError lists every field rule a payload violated.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

// NewValidation creates a ValidationError from a field -> message map.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// BadRequestError is a malformed or rejected mutation payload, such as a
// non-positive price or a stock delta that would drive stock negative.
type BadRequestError struct {
	Msg string
}

func (e *BadRequestError) Error() string   { return e.Msg }
func (e *BadRequestError) HTTPStatus() int { return http.StatusBadRequest }

// NewBadRequest creates a BadRequestError.
func NewBadRequest(format string, args ...any) *BadRequestError {
	return &BadRequestError{Msg: fmt.Sprintf(format, args...)}
}

// InternalError wraps an unexpected storage or runtime failure. Its message
// is for logs only and never reaches clients.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error   { return e.Err }

// NewInternal wraps err as an InternalError.
func NewInternal(msg string, err error) *InternalError {
	return &InternalError{Msg: msg, Err: err}
}
