package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory session registry. Idle sessions are removed by a
// background sweep so abandoned conversations don't accumulate.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	accessMu   sync.RWMutex
	lastAccess map[uuid.UUID]time.Time

	ttl         time.Duration
	sweepTicker *time.Ticker
	sweepStop   chan struct{}
}

// NewStore creates a session store. Sessions idle longer than ttl are swept
// every interval; pass interval <= 0 to disable the sweep (tests).
func NewStore(ttl, interval time.Duration) *Store {
	s := &Store{
		sessions:   make(map[uuid.UUID]*Session),
		lastAccess: make(map[uuid.UUID]time.Time),
		ttl:        ttl,
	}

	if interval > 0 {
		s.sweepTicker = time.NewTicker(interval)
		s.sweepStop = make(chan struct{})
		go s.sweep()
	}

	return s
}

// Create registers a fresh session and returns it.
func (s *Store) Create() *Session {
	sess := New()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.touch(sess.ID)
	return sess
}

// Get returns the session with the given ID, refreshing its idle timer.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if ok {
		s.touch(id)
	}
	return sess, ok
}

// Delete removes a session.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.accessMu.Lock()
	delete(s.lastAccess, id)
	s.accessMu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// touch records access time for the TTL sweep.
func (s *Store) touch(id uuid.UUID) {
	s.accessMu.Lock()
	s.lastAccess[id] = time.Now()
	s.accessMu.Unlock()
}

// sweep periodically drops sessions idle past the TTL.
func (s *Store) sweep() {
	for {
		select {
		case <-s.sweepTicker.C:
			s.sweepIdle()
		case <-s.sweepStop:
			return
		}
	}
}

// sweepIdle removes sessions whose last access is older than the TTL.
func (s *Store) sweepIdle() {
	cutoff := time.Now().Add(-s.ttl)

	s.accessMu.RLock()
	expired := make([]uuid.UUID, 0)
	for id, last := range s.lastAccess {
		if last.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	s.accessMu.RUnlock()

	for _, id := range expired {
		s.Delete(id)
	}
}

// Stop halts the background sweep.
func (s *Store) Stop() {
	if s.sweepTicker != nil {
		s.sweepTicker.Stop()
	}
	if s.sweepStop != nil {
		close(s.sweepStop)
	}
}
