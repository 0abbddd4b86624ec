package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error. Message is operator-facing and is
// rendered as-is by the HTTP layer.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrConflict
	ErrInternal
	ErrPersistence
	ErrUnavailable
)

// Validation is raised before any write is attempted.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
	}
}

// Conflict reports an occupied slot; no write was attempted.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("Registro não encontrado: %s.", resource),
		Err:     err,
	}
}

// Persistence wraps a failed store call. The cause is appended to the prefix so
// the operator sees e.g. "Erro ao reagendar: connection refused".
func Persistence(prefix string, err error) *AppError {
	msg := prefix
	if err != nil {
		msg = prefix + err.Error()
	}
	return &AppError{
		Code:    ErrPersistence,
		Message: msg,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Is reports whether err is an AppError carrying code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As is re-exported so callers do not need to import both errors packages.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unavailable reports a dependency or deadline failure the operator can retry.
func Unavailable(message string) *AppError {
	return &AppError{
		Code:    ErrUnavailable,
		Message: message,
	}
}
