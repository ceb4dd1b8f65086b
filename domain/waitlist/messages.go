package waitlist

import (
	"errors"

	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
)

const (
	MessageJoined       = "You're on the list! We'll be in touch."
	MessageNetworkError = "Network error. Please check your connection and try again."
	MessageServerError  = "Server error. Please try again later."
	MessageClientError  = "Invalid request. Please refresh and try again."
	MessageGenericError = "Failed to submit. Please try again."
)

// MessageForError picks the visitor-facing message from the store failure kind.
func MessageForError(err error) string {
	switch liststore.KindOf(err) {
	case liststore.KindNetwork:
		return MessageNetworkError
	case liststore.KindServer:
		return MessageServerError
	case liststore.KindClient:
		return MessageClientError
	default:
		return MessageGenericError
	}
}

// toAppError carries the visitor-facing message while keeping the store error
// for logs. Upstream failures answer 502; anything we could not classify is ours.
func toAppError(err error) error {
	message := MessageForError(err)

	switch liststore.KindOf(err) {
	case liststore.KindNetwork, liststore.KindServer, liststore.KindClient:
		return apperrors.NewUpstreamError(message, err)
	case liststore.KindConfig:
		return apperrors.NewConfigurationError(message, err)
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.NewInternalServerError(message, err)
	}
}
