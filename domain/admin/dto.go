package admin

import "time"

// LoginRequest has no binding rules: empty values simply fail the comparison.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}
