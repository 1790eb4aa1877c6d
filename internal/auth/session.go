package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
	// StateTerminated is reported for sessions the store has expired.
	StateTerminated State = "terminated"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// Session is the per-visitor gate state. It starts anonymous and only a
// successful credential check moves it to authenticated.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSession(now time.Time) *Session {
	return &Session{ID: uuid.NewString(), State: StateAnonymous, CreatedAt: now, UpdatedAt: now}
}

// Authenticated reports the logged_in flag.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == StateAuthenticated
}

// SessionStore persists sessions for a bounded lifetime.
type SessionStore interface {
	// Get returns ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// ValidSessionID reports whether id could have been issued by this package.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
