package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmcleod/gatehouse/auth"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("GATEHOUSE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GATEHOUSE_TEST_POSTGRES_DSN not set; skipping PostgreSQL tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("could not ensure schema: %v", err)
	}

	// Clean table for test isolation.
	pool.Exec(ctx, "DELETE FROM users") //nolint:errcheck

	t.Cleanup(func() {
		pool.Exec(ctx, "DELETE FROM users") //nolint:errcheck
		pool.Close()
	})
	return NewRepository(pool)
}

func TestPostgresRepository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	u, err := repo.Add(ctx, "alice@example.com", "digest-1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected a generated id")
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := repo.Add(ctx, "alice@example.com", "digest-2")
		if !errors.Is(err, auth.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("FindByEmail", func(t *testing.T) {
		got, err := repo.FindBy(ctx, auth.ByEmail("alice@example.com"))
		if err != nil {
			t.Fatalf("FindBy failed: %v", err)
		}
		if got.ID != u.ID || got.HashedPassword != "digest-1" {
			t.Fatalf("wrong user: %+v", got)
		}
	})

	t.Run("FindByMissing", func(t *testing.T) {
		_, err := repo.FindBy(ctx, auth.ByEmail("nobody@example.com"))
		if !errors.Is(err, auth.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateSessionAndClear", func(t *testing.T) {
		sid := "session-123"
		if err := repo.Update(ctx, u.ID, auth.Changes{SessionID: &sid}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		got, err := repo.FindBy(ctx, auth.BySessionID(sid))
		if err != nil {
			t.Fatalf("FindBy session failed: %v", err)
		}
		if got.ID != u.ID {
			t.Fatalf("wrong user for session: %+v", got)
		}

		empty := ""
		if err := repo.Update(ctx, u.ID, auth.Changes{SessionID: &empty}); err != nil {
			t.Fatalf("clearing session failed: %v", err)
		}
		if _, err := repo.FindBy(ctx, auth.BySessionID(sid)); !errors.Is(err, auth.ErrNotFound) {
			t.Fatalf("expected cleared session to be gone, got %v", err)
		}
	})

	t.Run("UpdateMissingUser", func(t *testing.T) {
		sid := "x"
		err := repo.Update(ctx, 999999, auth.Changes{SessionID: &sid})
		if !errors.Is(err, auth.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("InvalidFilter", func(t *testing.T) {
		_, err := repo.FindBy(ctx, auth.Filter{})
		if !errors.Is(err, auth.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
