package errors

import (
	"errors"
	"fmt"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTimeout      = 408
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusBadGateway          = 502
)

// Error types carried by AppError. Each maps to one HTTP status in kindStatus.
const (
	ErrorTypeInvalidRequest      = "INVALID_REQUEST"
	ErrorTypeUnauthorized        = "UNAUTHORIZED"
	ErrorTypeNotFound            = "NOT_FOUND"
	ErrorTypeRequestTimeout      = "REQUEST_TIMEOUT"
	ErrorTypeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrorTypeUpstream            = "UPSTREAM_ERROR"
	ErrorTypeConfiguration       = "CONFIGURATION_ERROR"
	ErrorTypeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown             = "UNKNOWN_ERROR"
)

var kindStatus = map[string]int{
	ErrorTypeInvalidRequest:      StatusBadRequest,
	ErrorTypeUnauthorized:        StatusUnauthorized,
	ErrorTypeNotFound:            StatusNotFound,
	ErrorTypeRequestTimeout:      StatusRequestTimeout,
	ErrorTypeRateLimitExceeded:   StatusTooManyRequests,
	ErrorTypeUpstream:            StatusBadGateway,
	ErrorTypeConfiguration:       StatusInternalServerError,
	ErrorTypeInternalServerError: StatusInternalServerError,
}

// AppError pairs a visitor-safe Message with the underlying cause.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Type + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return NewAppError(ErrorTypeUnauthorized, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternalServerError, message, err)
}

// NewUpstreamError reports a failure of a third-party API this service depends on.
func NewUpstreamError(message string, err error) *AppError {
	return NewAppError(ErrorTypeUpstream, message, err)
}

// NewConfigurationError reports missing or invalid server-side settings.
func NewConfigurationError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConfiguration, message, err)
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil || !errors.As(err, &appErr) {
		return nil, false
	}
	return appErr, true
}

// GetErrorType returns the type of the first AppError in err's chain.
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := asAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeUnknown
}
