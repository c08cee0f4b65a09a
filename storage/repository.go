// Package storage provides the record-storage abstraction used by the
// persistent session store.
package storage

import "errors"

// ErrNotFound is returned when no record matches the given type and id.
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for typed record storage. Records are
// opaque byte payloads keyed by a record type and a record id; the engine
// guarantees single-record read/write atomicity and nothing more.
type Repository interface {
	Save(recordType string, recordID string, data []byte) error
	Get(recordType string, recordID string) ([]byte, error)
	List(recordType string) ([]string, error)
	Delete(recordType string, recordID string) error
}
