package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anatolykoptev/go_jobdash/internal/profile"
)

// DefaultID is used for calls that carry no session id.
const DefaultID = "default"

// Store keeps sessions in memory and evicts them after an idle TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	profile  *profile.Profile
	ttl      time.Duration
	onDrop   func(id string)
	now      func() time.Time
}

// NewStore creates sessions on the default profile. A zero ttl never evicts.
// onDrop, if non-nil, runs when a session is dropped or evicted, with the
// store locked so that no new session under the same id can exist yet.
// It must not call back into the Store.
func NewStore(defaultProfile *profile.Profile, ttl time.Duration, onDrop func(id string)) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		profile:  defaultProfile,
		ttl:      ttl,
		onDrop:   onDrop,
		now:      time.Now,
	}
}

// Get returns the session for id, creating it if needed, and marks it active.
func (st *Store) Get(id string) *Session {
	if id == "" {
		id = DefaultID
	}
	now := st.now()

	st.mu.Lock()
	s, ok := st.sessions[id]
	stale := ok && st.expired(s, now)
	if stale {
		st.droppedLocked(id)
	}
	if !ok || stale {
		s = New(id, st.profile)
		st.sessions[id] = s
	}
	s.touch(now)
	st.mu.Unlock()

	if !ok || stale {
		slog.Debug("session: created", slog.String("id", id), slog.Bool("replaced_stale", stale))
	}
	return s
}

// Drop removes a session.
func (st *Store) Drop(id string) {
	if id == "" {
		id = DefaultID
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; ok {
		delete(st.sessions, id)
		st.droppedLocked(id)
	}
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (st *Store) Sweep() int {
	now := st.now()
	evicted := 0
	st.mu.Lock()
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			st.droppedLocked(id)
			evicted++
		}
	}
	st.mu.Unlock()

	if evicted > 0 {
		slog.Info("session: evicted idle sessions", slog.Int("count", evicted))
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = st.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(s.idleSince()) > st.ttl
}

func (st *Store) droppedLocked(id string) {
	if st.onDrop != nil {
		st.onDrop(id)
	}
}
