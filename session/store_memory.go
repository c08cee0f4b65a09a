package session

import (
	"sync"

	"github.com/jmcleod/gatehouse/internal/uuid"
)

// MemoryStore keeps session ids in a process-local map. Sessions never
// expire and are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

func (s *MemoryStore) Create(userID string) (string, bool) {
	if userID == "" {
		return "", false
	}
	sid := uuid.New()
	s.mu.Lock()
	s.sessions[sid] = userID
	s.mu.Unlock()
	return sid, true
}

func (s *MemoryStore) Lookup(sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.sessions[sessionID]
	return userID, ok
}

func (s *MemoryStore) Destroy(sessionID string) bool {
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
