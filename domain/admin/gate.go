package admin

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	MessageInvalidCredentials = "Invalid credentials"
	MessageNotAuthenticated   = "Authentication required"

	sessionTokenLength = 32
)

type Credentials struct {
	Username string
	Password string
}

func (c Credentials) IsConfigured() bool {
	return c.Username != "" && c.Password != ""
}

// Gate checks the shared admin secret and manages sessions.
type Gate struct {
	credentials Credentials
	delay       time.Duration
	store       SessionStore
	logger      *log.Logger
	now         func() time.Time
	newToken    func() (string, error)
}

type GateOption func(*Gate)

// WithLoginDelay sets the pause applied before every credential check.
func WithLoginDelay(delay time.Duration) GateOption {
	return func(g *Gate) {
		if delay >= 0 {
			g.delay = delay
		}
	}
}

func WithGateClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		g.now = now
	}
}

func NewGate(credentials Credentials, store SessionStore, logger *log.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		credentials: credentials,
		delay:       time.Second,
		store:       store,
		logger:      logger,
		now:         time.Now,
		newToken:    func() (string, error) { return gonanoid.New(sessionTokenLength) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login waits the configured delay, then creates a session when both values
// match the configured secret. With no secret configured every attempt fails.
func (g *Gate) Login(ctx context.Context, username, password string) (*Session, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, g.logger)

	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	if !g.credentials.IsConfigured() {
		logger.Error("Admin login attempted but ADMIN_USERNAME/ADMIN_PASSWORD are not configured")
		return nil, apperrors.NewUnauthorizedError(MessageInvalidCredentials, nil)
	}

	if !g.matches(username, password) {
		logger.Warn("Admin login failed")
		return nil, apperrors.NewUnauthorizedError(MessageInvalidCredentials, nil)
	}

	token, err := g.newToken()
	if err != nil {
		return nil, apperrors.NewInternalServerError("Unable to start admin session", err)
	}

	session := &Session{Token: token, CreatedAt: g.now().UTC()}
	if err := g.store.Create(ctx, session); err != nil {
		logger.Error("Failed to persist admin session", "error", err)
		return nil, apperrors.NewInternalServerError("Unable to start admin session", err)
	}

	logger.Info("Admin logged in")
	return session, nil
}

// Logout forgets the session. Unknown tokens are not an error.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := g.store.Delete(ctx, token); err != nil {
		log.GetLoggerInstanceFromContext(ctx, g.logger).Error("Failed to delete admin session", "error", err)
		return apperrors.NewInternalServerError("Unable to end admin session", err)
	}
	return nil
}

// Authenticate resolves token to its session.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError(MessageNotAuthenticated, nil)
	}

	session, err := g.store.Get(ctx, token)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, g.logger).Error("Failed to load admin session", "error", err)
		return nil, apperrors.NewInternalServerError("Unable to verify admin session", err)
	}
	if session == nil {
		return nil, apperrors.NewUnauthorizedError(MessageNotAuthenticated, nil)
	}
	return session, nil
}

func (g *Gate) IsAuthenticated(ctx context.Context, token string) bool {
	session, err := g.Authenticate(ctx, token)
	return err == nil && session != nil
}

func (g *Gate) matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.credentials.Password)) == 1
	return userOK && passOK
}

func (g *Gate) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return apperrors.NewAppError(apperrors.ErrorTypeRequestTimeout, "Login cancelled", ctx.Err())
	}
}
