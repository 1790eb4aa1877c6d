package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Gate owns the anonymous -> authenticated transition.
type Gate struct {
	verifier Verifier
	store    SessionStore
	now      func() time.Time
}

func NewGate(verifier Verifier, store SessionStore) *Gate {
	return &Gate{verifier: verifier, store: store, now: time.Now}
}

// Begin returns the session for id, or a fresh anonymous session when id is
// empty, malformed or no longer stored. Fresh sessions are saved so their id
// can be handed to the client.
func (g *Gate) Begin(ctx context.Context, id string) (*Session, error) {
	if ValidSessionID(id) {
		s, err := g.store.Get(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}
	s := newSession(g.now())
	if err := g.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Login checks the credential pair. On a match the session becomes
// authenticated under a new id and the anonymous id is discarded; callers
// must hand the new s.ID to the client. On a mismatch s is left untouched
// and ErrInvalidCredentials is returned.
func (g *Gate) Login(ctx context.Context, s *Session, username, password string) error {
	if !g.verifier.Verify(username, password) {
		return ErrInvalidCredentials
	}
	next := *s
	next.ID = uuid.NewString()
	next.State = StateAuthenticated
	next.Username = username
	next.UpdatedAt = g.now()
	if err := g.store.Save(ctx, &next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := g.store.Delete(ctx, s.ID); err != nil {
		// The old id stays anonymous until it expires.
		slog.WarnContext(ctx, "Failed to discard anonymous session", "session_id", s.ID, "error", err)
	}
	*s = next
	return nil
}
