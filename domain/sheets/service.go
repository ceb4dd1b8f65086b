package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/sheets"
)

const (
	MessageSubmitted          = "Email submitted successfully"
	MessageMissingFields      = "Missing required fields"
	MessageConfigurationError = "Server configuration error"
	MessageInternalError      = "Internal server error"
)

// Appender is the slice of the Sheets client the forwarder needs.
type Appender interface {
	IsConfigured() bool
	AppendRow(ctx context.Context, row []string) (*sheets.AppendResult, error)
}

type ForwardingService interface {
	// Forward appends the submission as one spreadsheet row and returns the
	// time the row was accepted.
	Forward(ctx context.Context, req SubmitEmailRequest) (time.Time, error)
}

type forwardingService struct {
	client Appender
	logger *log.Logger
	now    func() time.Time
}

type ServiceOption func(*forwardingService)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *forwardingService) {
		s.now = now
	}
}

func NewForwardingService(client Appender, logger *log.Logger, opts ...ServiceOption) ForwardingService {
	s := &forwardingService{client: client, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *forwardingService) Forward(ctx context.Context, req SubmitEmailRequest) (time.Time, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	logger.Info("Processing email submission",
		"email", log.MaskEmail(req.Email),
		"timestamp", req.Timestamp,
		"source", req.Source,
		"configured", s.client.IsConfigured(),
	)

	if !s.client.IsConfigured() {
		logger.Error("Sheets forwarding is missing GOOGLE_SHEET_ID or GOOGLE_API_KEY")
		return time.Time{}, apperrors.NewConfigurationError(MessageConfigurationError, sheets.ErrNotConfigured)
	}

	result, err := s.client.AppendRow(ctx, req.row())
	if err != nil {
		var statusErr *sheets.StatusError
		if errors.As(err, &statusErr) {
			logger.Error("Google Sheets API error", "status", statusErr.Status, "body", statusErr.Body)
		} else {
			logger.Error("Google Sheets request failed", "error", err)
		}
		return time.Time{}, apperrors.NewInternalServerError(MessageInternalError, err)
	}

	logger.Info("Email stored in Google Sheets",
		"email", log.MaskEmail(req.Email),
		"updated_rows", result.UpdatedRows,
		"updated_range", result.UpdatedRange,
	)
	return s.now(), nil
}
