package admin

import (
	"context"
	"time"
)

// Session is an authenticated admin login. It has no expiry and lives until
// logout removes it from the store.
type Session struct {
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionContextKey struct{}

func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the session placed by RequireSession.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok && session != nil
}
