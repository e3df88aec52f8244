package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrConflict           = errors.New("uniqueness conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpired            = errors.New("expired")
	ErrCodeMismatch       = errors.New("code mismatch")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrTimeout            = errors.New("operation timed out")
	ErrInternal           = errors.New("internal error")
)

// Machine-readable error codes returned to clients.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeConflict           = "CONFLICT"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeExpired            = "EXPIRED"
	CodeCodeMismatch       = "CODE_MISMATCH"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeTimeout            = "TIMEOUT"
	CodeInternal           = "INTERNAL"
)

// AppError represents an application error with an HTTP status and a stable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// FromError maps a domain sentinel to its canonical AppError. Unknown errors
// become an opaque Internal so storage details never reach the caller.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeAlreadyExists, "resource already exists", err)
	case errors.Is(err, ErrConflict):
		return Conflict("resource already exists")
	case errors.Is(err, ErrInvalidInput):
		return BadRequest("invalid input")
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid phone number or password", err)
	case errors.Is(err, ErrInvalidToken):
		return NewAppError(http.StatusUnauthorized, CodeInvalidToken, "invalid or expired token", err)
	case errors.Is(err, ErrExpired):
		return NewAppError(http.StatusBadRequest, CodeExpired, "code has expired", err)
	case errors.Is(err, ErrCodeMismatch):
		return NewAppError(http.StatusBadRequest, CodeCodeMismatch, "code does not match", err)
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("unauthorized")
	case errors.Is(err, ErrForbidden):
		return Forbidden("insufficient permissions")
	case errors.Is(err, ErrTimeout):
		return NewAppError(http.StatusGatewayTimeout, CodeTimeout, "operation timed out", err)
	default:
		return InternalError(err)
	}
}
