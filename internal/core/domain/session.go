package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionExpired = errors.New("session expired or revoked")
var ErrInvalidToken = errors.New("invalid or expired token")

// Session records one authenticated login. It is revocable independently of
// the token that names it: the token may still verify while the session has
// been deactivated.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// Valid reports whether the session is live at the given instant.
// Validity is monotonically non-increasing: once false, it never
// becomes true again.
func (s *Session) Valid(now time.Time) bool {
	return s.IsActive && !now.After(s.ExpiresAt)
}
