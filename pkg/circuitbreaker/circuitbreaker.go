package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitState is the current circuit breaker state.
type CircuitState int

const (
	// Closed allows requests to pass through
	Closed CircuitState = iota
	// Open blocks all requests
	Open
	// HalfOpen allows limited requests to test recovery
	HalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to an upstream and opens after repeated failures.
type CircuitBreaker interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
	State() CircuitState
	Metrics() Metrics
	Reset()
}

// StateChangeFunc is called after every transition, outside the breaker lock.
type StateChangeFunc func(name string, from, to CircuitState)

type Config struct {
	Name             string
	FailureThreshold int           // consecutive failures before opening
	RecoveryTimeout  time.Duration // how long to stay open before probing
	SuccessThreshold int           // probe successes needed to close again

	// IsFailure decides whether an error counts against the upstream.
	// Nil counts every error except context cancellation.
	IsFailure     func(error) bool
	OnStateChange StateChangeFunc
}

func DefaultConfig(name string) *Config {
	return &Config{
		Name:             name,
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 1,
	}
}

// Metrics is a point-in-time view of the breaker.
type Metrics struct {
	State        CircuitState
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	NextAttempt  time.Time
}

type circuitBreaker struct {
	config      Config
	now         func() time.Time
	state       CircuitState
	failures    int
	successes   int
	lastFailure time.Time
	nextAttempt time.Time
	mutex       sync.Mutex
}

// NewCircuitBreaker fills zero config fields from DefaultConfig.
func NewCircuitBreaker(config *Config) CircuitBreaker {
	return newCircuitBreaker(config, time.Now)
}

func newCircuitBreaker(config *Config, now func() time.Time) *circuitBreaker {
	cfg := DefaultConfig("")
	if config != nil {
		cfg.Name = config.Name
		cfg.IsFailure = config.IsFailure
		cfg.OnStateChange = config.OnStateChange
		if config.FailureThreshold > 0 {
			cfg.FailureThreshold = config.FailureThreshold
		}
		if config.RecoveryTimeout > 0 {
			cfg.RecoveryTimeout = config.RecoveryTimeout
		}
		if config.SuccessThreshold > 0 {
			cfg.SuccessThreshold = config.SuccessThreshold
		}
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = defaultIsFailure
	}

	return &circuitBreaker{config: *cfg, now: now, state: Closed}
}

func defaultIsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Execute runs fn unless the circuit is open. fn is never retried.
func (cb *circuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cb.mutex.Lock()
	from := cb.state
	allowed := cb.allowLocked()
	to := cb.state
	cb.mutex.Unlock()
	cb.notify(from, to)

	if !allowed {
		return ErrCircuitOpen
	}

	err := fn(ctx)

	cb.mutex.Lock()
	from = cb.state
	if err != nil && cb.config.IsFailure(err) {
		cb.recordFailureLocked()
	} else {
		cb.recordSuccessLocked()
	}
	to = cb.state
	cb.mutex.Unlock()
	cb.notify(from, to)

	return err
}

func (cb *circuitBreaker) allowLocked() bool {
	if cb.state == Open && !cb.now().Before(cb.nextAttempt) {
		cb.state = HalfOpen
		cb.successes = 0
	}
	return cb.state != Open
}

func (cb *circuitBreaker) recordFailureLocked() {
	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case Closed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.trip()
		}
	case HalfOpen:
		cb.trip()
	}
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.nextAttempt = cb.now().Add(cb.config.RecoveryTimeout)
}

func (cb *circuitBreaker) recordSuccessLocked() {
	cb.failures = 0

	if cb.state == HalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.state = Closed
			cb.successes = 0
		}
	}
}

func (cb *circuitBreaker) notify(from, to CircuitState) {
	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Metrics() Metrics {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return Metrics{
		State:        cb.state,
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		NextAttempt:  cb.nextAttempt,
	}
}

func (cb *circuitBreaker) Reset() {
	cb.mutex.Lock()
	from := cb.state
	cb.state = Closed
	cb.failures = 0
	cb.successes = 0
	cb.mutex.Unlock()
	cb.notify(from, Closed)
}
