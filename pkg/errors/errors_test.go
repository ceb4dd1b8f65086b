package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", NewInvalidRequestError("bad", nil), StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no", nil), StatusUnauthorized},
		{"not found", NewNotFoundError("gone", nil), StatusNotFound},
		{"timeout", NewAppError(ErrorTypeRequestTimeout, "slow", nil), StatusRequestTimeout},
		{"rate limited", NewAppError(ErrorTypeRateLimitExceeded, "slow down", nil), StatusTooManyRequests},
		{"upstream", NewUpstreamError("store down", nil), StatusBadGateway},
		{"config", NewConfigurationError("missing", nil), StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewUpstreamError("x", nil)), StatusBadGateway},
		{"plain", errors.New("plain"), StatusInternalServerError},
		{"nil", nil, StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestGetHumanReadableMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "store down", GetHumanReadableMessage(NewUpstreamError("store down", errors.New("dial tcp: refused"))))
	assert.Equal(t, genericMessage, GetHumanReadableMessage(errors.New("no such table: admin_sessions")))
	assert.Equal(t, genericMessage, GetHumanReadableMessage(nil))
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("cause")
	err := NewConfigurationError("bin id missing", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "CONFIGURATION_ERROR: bin id missing: cause", err.Error())
	assert.Equal(t, "NOT_FOUND: gone", NewNotFoundError("gone", nil).Error())
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, "", GetErrorType(nil))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("x")))
	assert.Equal(t, ErrorTypeConfiguration, GetErrorType(fmt.Errorf("w: %w", NewConfigurationError("m", nil))))
}

type submitPayload struct {
	Email  string `json:"email" validate:"required,email"`
	Window string `json:"window" validate:"oneof=all today week"`
}

func TestFieldErrors_UsesJSONFieldNames(t *testing.T) {
	err := validator.New().Struct(&submitPayload{Email: "nope", Window: "month"})

	fields := FieldErrors(err, &submitPayload{})

	require.Len(t, fields, 2)
	assert.Equal(t, FieldError{Field: "email", Message: "Invalid email format"}, fields[0])
	assert.Equal(t, FieldError{Field: "window", Message: "Value is not one of the allowed options"}, fields[1])
}

func TestFieldErrors_TypeMismatch(t *testing.T) {
	var target struct {
		Email string `json:"email"`
	}
	err := json.Unmarshal([]byte(`{"email": 42}`), &target)

	fields := FieldErrors(err, &target)

	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].Field)
}

func TestFieldErrors_UnknownErrorIsNil(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("EOF"), nil))
	assert.Nil(t, FieldErrors(nil, nil))
}
