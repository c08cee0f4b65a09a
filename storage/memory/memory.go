// Package memory provides a thread-safe in-memory implementation of
// storage.Repository. Suitable for testing, demos, and single-process use.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jmcleod/gatehouse/internal/util"
	"github.com/jmcleod/gatehouse/storage"
)

// Repository is a thread-safe in-memory implementation of storage.Repository.
// Records are lost on process restart.
type Repository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository creates a new empty in-memory Repository.
func NewRepository() *Repository {
	return &Repository{data: make(map[string][]byte)}
}

func makeKey(recordType, recordID string) string {
	return recordType + ":" + recordID
}

func (r *Repository) Save(recordType, recordID string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[makeKey(recordType, recordID)] = util.CopyBytes(data)
	return nil
}

func (r *Repository) Get(recordType, recordID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.data[makeKey(recordType, recordID)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", recordType, recordID, storage.ErrNotFound)
	}
	return util.CopyBytes(data), nil
}

func (r *Repository) List(recordType string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefix := recordType + ":"
	var ids []string
	for k := range r.data {
		if strings.HasPrefix(k, prefix) {
			ids = append(ids, k[len(prefix):])
		}
	}
	return ids, nil
}

func (r *Repository) Delete(recordType, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := makeKey(recordType, recordID)
	if _, ok := r.data[k]; !ok {
		return fmt.Errorf("%s/%s: %w", recordType, recordID, storage.ErrNotFound)
	}
	delete(r.data, k)
	return nil
}
