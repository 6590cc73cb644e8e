package session

import (
	"context"
	"errors"
	"time"

	"github.com/farmgate/farmgate/internal/rbac"
)

// Domain errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Principal is the authenticated actor recorded at login. The session layer
// does not verify credentials; it only records the outcome of a successful
// verification (see identity.Service.Authenticate).
type Principal struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
}

// Session binds an opaque ID to the principal it was issued for. The full
// principal record travels with the session, so resolving "who is current"
// for a request needs no further lookup.
type Session struct {
	ID         string
	Principal  Principal
	IPAddress  string
	UserAgent  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// IsExpired checks if the session has passed its absolute lifetime.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsIdle checks if the session has been idle for too long.
func (s *Session) IsIdle(idleTimeout time.Duration) bool {
	return time.Since(s.LastSeenAt) > idleTimeout
}

// Repository defines the interface for session persistence
type Repository interface {
	// Create persists a new session
	Create(ctx context.Context, sess *Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Touch updates the session's last seen time
	Touch(ctx context.Context, sessionID string, lastSeenAt time.Time) error

	// Delete removes a session. Deleting a session that does not exist is
	// not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteByPrincipalID removes all sessions for a principal
	DeleteByPrincipalID(ctx context.Context, principalID string) error

	// DeleteExpired removes all sessions past their absolute lifetime
	DeleteExpired(ctx context.Context) error
}
