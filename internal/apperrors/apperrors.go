package apperrors

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidArgument(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, nil)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func Internal(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// Code returns the HTTP status carried by err, or 500 when err is not an AppError.
func Code(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool     { return Code(err) == http.StatusNotFound }
func IsConflict(err error) bool     { return Code(err) == http.StatusConflict }
func IsInvalid(err error) bool      { return Code(err) == http.StatusBadRequest }
func IsForbidden(err error) bool    { return Code(err) == http.StatusForbidden }
func IsUnauthorized(err error) bool { return Code(err) == http.StatusUnauthorized }

// Lock timeouts, deadlocks and serialization failures are safe to retry.
var retryableStates = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

// FromDB turns a gorm/pgx error into an AppError. notFound is used as the
// message when the row does not exist.
func FromDB(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict("resource already exists", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && retryableStates[pgErr.Code] {
		return Conflict("concurrent update in progress, retry the request", err)
	}
	return Internal("database error", err)
}
