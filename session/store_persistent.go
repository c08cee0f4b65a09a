package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jmcleod/gatehouse/internal/uuid"
	"github.com/jmcleod/gatehouse/storage"
)

const recordType = "SESSION"

// Record is the durable form of one session.
type Record struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PersistentStore keeps sessions in a storage.Repository so they survive
// restarts. Sessions older than the configured duration are treated as
// absent; a non-positive duration disables expiry. Records missing a
// creation time are always treated as absent.
type PersistentStore struct {
	store    storage.Repository
	duration time.Duration
	logger   *slog.Logger

	now func() time.Time
}

var _ Store = (*PersistentStore)(nil)

// NewPersistentStore creates a PersistentStore on top of the given
// repository.
func NewPersistentStore(store storage.Repository, duration time.Duration, logger *slog.Logger) *PersistentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistentStore{
		store:    store,
		duration: duration,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *PersistentStore) Create(userID string) (string, bool) {
	if userID == "" {
		return "", false
	}
	rec := Record{
		SessionID: uuid.New(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Error("encoding session record", "error", err)
		return "", false
	}
	if err := s.store.Save(recordType, rec.SessionID, data); err != nil {
		s.logger.Error("saving session record", "error", err)
		return "", false
	}
	return rec.SessionID, true
}

func (s *PersistentStore) Lookup(sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	data, err := s.store.Get(recordType, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("loading session record", "error", err)
		}
		return "", false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Error("decoding session record", "session_id", sessionID, "error", err)
		return "", false
	}
	if rec.CreatedAt.IsZero() || s.expired(rec) {
		return "", false
	}
	return rec.UserID, true
}

func (s *PersistentStore) Destroy(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	if err := s.store.Delete(recordType, sessionID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("deleting session record", "error", err)
		}
		return false
	}
	return true
}

// PurgeExpired removes every expired or unreadable session record and
// returns how many were removed.
func (s *PersistentStore) PurgeExpired() (int, error) {
	ids, err := s.store.List(recordType)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, sid := range ids {
		if !s.shouldPurge(sid) {
			continue
		}
		if err := s.store.Delete(recordType, sid); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func (s *PersistentStore) shouldPurge(sessionID string) bool {
	data, err := s.store.Get(recordType, sessionID)
	if err != nil {
		return false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("purging corrupt session record", "session_id", sessionID)
		return true
	}
	return rec.CreatedAt.IsZero() || s.expired(rec)
}

func (s *PersistentStore) expired(rec Record) bool {
	if s.duration <= 0 {
		return false
	}
	return s.now().After(rec.CreatedAt.Add(s.duration))
}
