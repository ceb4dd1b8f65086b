package waitlist

import (
	"context"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
	"github.com/grahmind/careers-waitlist/pkg/validation"
)

type WaitlistService interface {
	// Submit validates email and appends it to the remote waitlist. The returned
	// submission is never nil and carries the final state and visitor message.
	Submit(ctx context.Context, email string) (*Submission, error)
}

type waitlistService struct {
	logger  *log.Logger
	updater *liststore.Updater
	now     func() time.Time
}

type ServiceOption func(*waitlistService)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *waitlistService) {
		s.now = now
	}
}

func NewWaitlistService(logger *log.Logger, updater *liststore.Updater, opts ...ServiceOption) WaitlistService {
	s := &waitlistService{logger: logger, updater: updater, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *waitlistService) Submit(ctx context.Context, email string) (*Submission, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)
	submission := NewSubmission(email)

	if email == "" || !validation.IsValidEmail(email) {
		logger.Warn("Waitlist submission rejected: invalid email format", "email", log.MaskEmail(email))
		submission.Message = validation.InvalidEmailMessage
		return submission, apperrors.NewInvalidRequestError(validation.InvalidEmailMessage, nil)
	}

	if err := submission.transition(StateSubmitting); err != nil {
		return submission, apperrors.NewInternalServerError(MessageGenericError, err)
	}

	record := models.NewWaitlistRecord(email, s.now())

	_, err := s.updater.Update(ctx, func(current liststore.Snapshot) ([]models.WaitlistRecord, error) {
		logger.Info("Appending waitlist record",
			"email", log.MaskEmail(email),
			"existing_records", current.Len(),
			"document_shape", current.Shape.String(),
		)

		records := make([]models.WaitlistRecord, 0, current.Len()+1)
		records = append(records, current.Records...)
		return append(records, record), nil
	})
	if err != nil {
		_ = submission.transition(StateIdle)
		submission.Message = MessageForError(err)
		logger.Error("Waitlist submission failed",
			"email", log.MaskEmail(email),
			"kind", liststore.KindOf(err).String(),
			"error", err,
		)
		return submission, toAppError(err)
	}

	if err := submission.transition(StateSuccess); err != nil {
		return submission, apperrors.NewInternalServerError(MessageGenericError, err)
	}
	submission.Record = &record
	submission.Message = MessageJoined

	logger.Info("Waitlist submission stored", "email", log.MaskEmail(email))
	return submission, nil
}
