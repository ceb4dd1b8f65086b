package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
)

const MessageConfirmationRequired = "Clearing the waitlist requires confirm=true"

// View is the admin's in-memory copy of the waitlist. Reads come from the
// last refresh; only Refresh and ClearAll talk to the remote store.
type View struct {
	updater  *liststore.Updater
	logger   *log.Logger
	location *time.Location
	now      func() time.Time

	mu            sync.RWMutex
	records       []models.WaitlistRecord
	loaded        bool
	inFlight      int
	lastRefreshed time.Time
}

type ViewOption func(*View)

// WithLocation sets the location whose calendar day defines "today".
func WithLocation(loc *time.Location) ViewOption {
	return func(v *View) {
		if loc != nil {
			v.location = loc
		}
	}
}

func WithClock(now func() time.Time) ViewOption {
	return func(v *View) {
		v.now = now
	}
}

func NewView(updater *liststore.Updater, logger *log.Logger, opts ...ViewOption) *View {
	v := &View{
		updater:  updater,
		logger:   logger,
		location: time.UTC,
		now:      time.Now,
		records:  []models.WaitlistRecord{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Refresh re-reads the remote list and replaces the in-memory copy. On
// failure the previous copy is kept.
func (v *View) Refresh(ctx context.Context) ([]models.WaitlistRecord, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, v.logger)

	v.trackRefresh(1)
	defer v.trackRefresh(-1)

	snapshot, err := v.updater.Store().Read(ctx)
	if err != nil {
		logger.Error("Failed to refresh waitlist", "kind", liststore.KindOf(err).String(), "error", err)
		return v.Records(), apperrors.NewUpstreamError("Unable to load the waitlist", err)
	}

	records := snapshot.Records
	if records == nil {
		records = []models.WaitlistRecord{}
	}

	v.mu.Lock()
	v.records = records
	v.loaded = true
	v.lastRefreshed = v.now()
	v.mu.Unlock()

	logger.Info("Waitlist refreshed", "records", len(records), "document_shape", snapshot.Shape.String())
	return cloneRecords(records), nil
}

// EnsureLoaded refreshes once if the view has never been loaded.
func (v *View) EnsureLoaded(ctx context.Context) error {
	v.mu.RLock()
	loaded := v.loaded
	v.mu.RUnlock()

	if loaded {
		return nil
	}
	_, err := v.Refresh(ctx)
	return err
}

func (v *View) Records() []models.WaitlistRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneRecords(v.records)
}

// Loading reports whether any refresh is still in flight.
func (v *View) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.inFlight > 0
}

// LastRefreshed is zero until the first successful refresh.
func (v *View) LastRefreshed() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastRefreshed
}

// Filter returns the records whose email contains term (case-insensitive)
// and whose timestamp falls in window.
func (v *View) Filter(term string, window Window) []models.WaitlistRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return filterRecords(v.records, term, window, v.clock())
}

func (v *View) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return computeStats(v.records, v.clock())
}

// ExportCSV renders the filtered records and the download file name.
func (v *View) ExportCSV(term string, window Window) (string, []byte) {
	records := v.Filter(term, window)
	return ExportFileName(v.now()), renderCSV(records)
}

// ClearAll overwrites the remote list with an empty array. It refuses to run
// without explicit confirmation.
func (v *View) ClearAll(ctx context.Context, confirmed bool) error {
	logger := log.GetLoggerInstanceFromContext(ctx, v.logger)

	if !confirmed {
		return apperrors.NewInvalidRequestError(MessageConfirmationRequired, nil)
	}

	if err := v.updater.Replace(ctx, []models.WaitlistRecord{}); err != nil {
		logger.Error("Failed to clear waitlist", "kind", liststore.KindOf(err).String(), "error", err)
		if liststore.KindOf(err) == liststore.KindConfig {
			return apperrors.NewConfigurationError("Waitlist storage is not configured", err)
		}
		return apperrors.NewUpstreamError("Unable to clear the waitlist", err)
	}

	v.mu.Lock()
	v.records = []models.WaitlistRecord{}
	v.loaded = true
	v.mu.Unlock()

	logger.Warn("Waitlist cleared by admin")
	return nil
}

func (v *View) trackRefresh(delta int) {
	v.mu.Lock()
	v.inFlight += delta
	v.mu.Unlock()
}

func (v *View) clock() clock {
	return clock{now: v.now(), loc: v.location}
}

func cloneRecords(records []models.WaitlistRecord) []models.WaitlistRecord {
	out := make([]models.WaitlistRecord, len(records))
	copy(out, records)
	return out
}
