package auth

import (
	"context"
	"log/slog"
	"time"

	"nairaghibli/internal/cache"
)

const defaultMaxSessions = 10000

// MemoryStore keeps sessions in a sliding-TTL LRU cache. Expired sessions
// are reported as terminated to the log.
type MemoryStore struct {
	sessions *cache.LRUCache[Session]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return newMemoryStore(ttl, time.Now)
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	onEvict := func(id string, s Session, reason cache.EvictReason) {
		slog.Debug("Session ended", "session_id", id, "state", StateTerminated, "was", s.State, "reason", reason.String())
	}
	return &MemoryStore{
		sessions: cache.NewLRUCache[Session](defaultMaxSessions, ttl,
			cache.WithSliding[Session](),
			cache.WithEvictFunc(onEvict),
			cache.WithClock[Session](now)),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.sessions.Set(s.ID, *s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.sessions.Delete(id)
	return nil
}

// Cleaner exposes the backing cache for periodic sweeping.
func (m *MemoryStore) Cleaner() cache.Cleaner {
	return m.sessions
}
