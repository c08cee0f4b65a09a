package session

import (
	"sync"
	"time"

	"github.com/jmcleod/gatehouse/internal/uuid"
)

type expiringEntry struct {
	userID    string
	createdAt time.Time
}

// ExpiringStore keeps session ids in memory and treats sessions older than
// the configured duration as absent. A non-positive duration disables
// expiry entirely. Lookup never removes entries; call PurgeExpired to
// reclaim memory.
type ExpiringStore struct {
	mu       sync.RWMutex
	sessions map[string]expiringEntry
	duration time.Duration

	now func() time.Time
}

var _ Store = (*ExpiringStore)(nil)

// NewExpiringStore creates an ExpiringStore whose sessions live for the
// given duration.
func NewExpiringStore(duration time.Duration) *ExpiringStore {
	return &ExpiringStore{
		sessions: make(map[string]expiringEntry),
		duration: duration,
		now:      time.Now,
	}
}

func (s *ExpiringStore) Create(userID string) (string, bool) {
	if userID == "" {
		return "", false
	}
	sid := uuid.New()
	s.mu.Lock()
	s.sessions[sid] = expiringEntry{userID: userID, createdAt: s.now()}
	s.mu.Unlock()
	return sid, true
}

func (s *ExpiringStore) Lookup(sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok || s.expired(entry) {
		return "", false
	}
	return entry.userID, true
}

func (s *ExpiringStore) Destroy(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// PurgeExpired removes every expired entry and returns how many were
// removed.
func (s *ExpiringStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for sid, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, sid)
			purged++
		}
	}
	return purged
}

func (s *ExpiringStore) expired(entry expiringEntry) bool {
	if s.duration <= 0 {
		return false
	}
	return s.now().After(entry.createdAt.Add(s.duration))
}
