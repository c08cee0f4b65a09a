package bbolt

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmcleod/gatehouse/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewRepositoryFromFile(filepath.Join(t.TempDir(), "records.db"), nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestStore_SaveGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("SESSION", "s1", []byte("payload")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := s.Get("SESSION", "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("got %q, want %q", data, "payload")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("SESSION", "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	if err := s.Save("SESSION", "s1", []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Get("SESSION", "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)

	ids, err := s.List("SESSION")
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %d ids, want 0", len(ids))
	}

	for _, id := range []string{"a", "b"} {
		if err := s.Save("SESSION", id, []byte(id)); err != nil {
			t.Fatalf("Save %q: %v", id, err)
		}
	}

	ids, err = s.List("SESSION")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d ids, want 2", len(ids))
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("SESSION", "s1", []byte("payload")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete("SESSION", "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("SESSION", "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if err := s.Save("SESSION", "s1", []byte("durable")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s.Close()

	data, err := s.Get("SESSION", "s1")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(data) != "durable" {
		t.Errorf("got %q, want %q", data, "durable")
	}
}
