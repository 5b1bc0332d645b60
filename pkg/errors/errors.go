package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type the HTTP layer renders. Code is a stable
// machine-readable identifier; Status is the HTTP status it maps to.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return newAppError("NOT_FOUND", resource+" not found", http.StatusNotFound, err)
}

func BadRequest(message string, err error) *AppError {
	return newAppError("BAD_REQUEST", message, http.StatusBadRequest, err)
}

func Unauthorized(message string, err error) *AppError {
	return newAppError("UNAUTHORIZED", message, http.StatusUnauthorized, err)
}

func Forbidden(message string, err error) *AppError {
	return newAppError("FORBIDDEN", message, http.StatusForbidden, err)
}

func Conflict(message string) *AppError {
	return newAppError("CONFLICT", message, http.StatusConflict, nil)
}

func Internal(message string, err error) *AppError {
	return newAppError("INTERNAL_ERROR", message, http.StatusInternalServerError, err)
}

// Is reports whether err is, or wraps, an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
