package memory

import (
	"errors"
	"testing"

	"github.com/jmcleod/gatehouse/storage"
)

func TestRepository_SaveGet(t *testing.T) {
	repo := NewRepository()

	if err := repo.Save("SESSION", "s1", []byte("payload")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := repo.Get("SESSION", "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("got %q, want %q", data, "payload")
	}

	// Mutating the returned slice must not affect the stored record.
	data[0] = 'X'
	data2, err := repo.Get("SESSION", "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data2) != "payload" {
		t.Errorf("stored record mutated: got %q", data2)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository()

	if _, err := repo.Get("SESSION", "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRepository_TypesAreIsolated(t *testing.T) {
	repo := NewRepository()

	if err := repo.Save("SESSION", "id", []byte("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Get("OTHER", "id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRepository_List(t *testing.T) {
	repo := NewRepository()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save("SESSION", id, []byte(id)); err != nil {
			t.Fatalf("Save %q: %v", id, err)
		}
	}
	if err := repo.Save("OTHER", "d", []byte("d")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ids, err := repo.List("SESSION")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("got %d ids, want 3", len(ids))
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository()

	if err := repo.Save("SESSION", "s1", []byte("payload")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete("SESSION", "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get("SESSION", "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := repo.Delete("SESSION", "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
