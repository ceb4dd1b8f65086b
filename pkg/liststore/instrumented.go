package liststore

import (
	"context"

	"github.com/grahmind/careers-waitlist/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

type storeMetrics struct {
	operations *prometheus.CounterVec
	shapes     *prometheus.CounterVec
}

// Instrumented counts store operations by outcome and the shape of every
// document read, so reads of unexpected payloads show up on dashboards.
type Instrumented struct {
	next    ListStore
	metrics *storeMetrics
}

// NewInstrumented wraps next and registers its collectors with reg.
func NewInstrumented(next ListStore, reg prometheus.Registerer) *Instrumented {
	m := &storeMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_store_operations_total",
				Help: "Remote list store operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		shapes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_store_read_shapes_total",
				Help: "Decoded shape of remote list store documents.",
			},
			[]string{"shape"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.shapes)
	}

	return &Instrumented{next: next, metrics: m}
}

func (s *Instrumented) Read(ctx context.Context) (Snapshot, error) {
	snapshot, err := s.next.Read(ctx)
	if err != nil {
		s.metrics.operations.WithLabelValues("read", KindOf(err).String()).Inc()
		return snapshot, err
	}

	s.metrics.operations.WithLabelValues("read", "ok").Inc()
	s.metrics.shapes.WithLabelValues(snapshot.Shape.String()).Inc()
	return snapshot, nil
}

func (s *Instrumented) Write(ctx context.Context, records []models.WaitlistRecord) error {
	if err := s.next.Write(ctx, records); err != nil {
		s.metrics.operations.WithLabelValues("write", KindOf(err).String()).Inc()
		return err
	}

	s.metrics.operations.WithLabelValues("write", "ok").Inc()
	return nil
}
