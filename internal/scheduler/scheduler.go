// Package scheduler runs the periodic waitlist stats snapshot.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grahmind/careers-waitlist/domain/dashboard"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	"github.com/robfig/cron/v3"
)

type Refresher interface {
	Refresh(ctx context.Context) ([]models.WaitlistRecord, error)
	Stats() dashboard.Stats
}

type StatsObserver interface {
	Observe(stats dashboard.Stats)
}

// Scheduler wraps robfig/cron and refreshes the dashboard view on a schedule.
type Scheduler struct {
	cron     *cron.Cron
	view     Refresher
	observer StatsObserver
	spec     string
	timeout  time.Duration
	logger   *log.Logger

	startup sync.WaitGroup
}

type Option func(*Scheduler)

// WithRunTimeout bounds a single refresh.
func WithRunTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New builds a scheduler for spec (e.g. "@every 15m"). An empty spec yields a
// scheduler whose Start is a no-op. observer may be nil.
func New(view Refresher, observer StatsObserver, spec string, loc *time.Location, logger *log.Logger, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		view:     view,
		observer: observer,
		spec:     spec,
		timeout:  constants.DefaultRequestTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Enabled() bool {
	return s.spec != ""
}

// Start registers the job, starts cron and takes one snapshot right away.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Info("Stats scheduler disabled (STATS_SCHEDULE empty)")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid STATS_SCHEDULE %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("Stats scheduler started", "schedule", s.spec)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		s.RunOnce(ctx)
	}()
	return nil
}

// Stop halts the schedule and waits for running snapshots, including the
// one taken at start, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.logger.Info("Stats scheduler stopped")
}

// RunOnce refreshes the view and publishes the resulting stats. Failures are
// logged; the previous numbers stay in place.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.view.Refresh(ctx); err != nil {
		s.logger.Error("Scheduled waitlist refresh failed", "error", err)
		return
	}

	stats := s.view.Stats()
	if s.observer != nil {
		s.observer.Observe(stats)
	}

	s.logger.Info("Waitlist stats snapshot", "total", stats.Total, "today", stats.Today, "week", stats.Week)
}
