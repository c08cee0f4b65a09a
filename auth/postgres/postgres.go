// Package postgres implements auth.Repository backed by PostgreSQL.
//
// The users table enforces the unique-email constraint at the database
// level, so the existence-check-then-insert race in registration is closed
// by the storage engine; a unique violation surfaces as
// auth.ErrConstraintViolation. Absent session ids and reset tokens are
// stored as empty strings to mirror the in-memory and BBolt backends.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmcleod/gatehouse/auth"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Repository implements auth.Repository backed by PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

var _ auth.Repository = (*Repository)(nil)

// NewRepository returns a user repository backed by the given pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NewRepositoryFromDSN creates a connection pool from a DSN string, ensures
// the schema exists, and returns a new Repository.
func NewRepositoryFromDSN(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return NewRepository(pool), nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

func (r *Repository) Add(ctx context.Context, email, hashedPassword string) (*auth.User, error) {
	if email == "" || hashedPassword == "" {
		return nil, fmt.Errorf("email and hashed password required: %w", auth.ErrInvalidArgument)
	}
	u := &auth.User{Email: email, HashedPassword: hashedPassword}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, hashed_password) VALUES ($1, $2) RETURNING id`,
		email, hashedPassword).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("email %q: %w", email, auth.ErrConstraintViolation)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

func (r *Repository) FindBy(ctx context.Context, filter auth.Filter) (*auth.User, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("user filter: %w", auth.ErrInvalidArgument)
	}
	where, args := buildWhere(filter)
	u := &auth.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, hashed_password, session_id, reset_token
		 FROM users WHERE `+where+` ORDER BY id LIMIT 1`, args...).Scan(
		&u.ID, &u.Email, &u.HashedPassword, &u.SessionID, &u.ResetToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", auth.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

func (r *Repository) Update(ctx context.Context, id int64, changes auth.Changes) error {
	sets := make([]string, 0, 3)
	args := []any{id}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("hashed_password", changes.HashedPassword)
	add("session_id", changes.SessionID)
	add("reset_token", changes.ResetToken)
	if len(sets) == 0 {
		// Nothing to change; still report a missing user.
		var exists bool
		err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking user: %w", err)
		}
		if !exists {
			return fmt.Errorf("user %d: %w", id, auth.ErrNotFound)
		}
		return nil
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, auth.ErrNotFound)
	}
	return nil
}

func buildWhere(f auth.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.ID != nil {
		add("id", *f.ID)
	}
	if f.Email != nil {
		add("email", *f.Email)
	}
	if f.SessionID != nil {
		add("session_id", *f.SessionID)
	}
	if f.ResetToken != nil {
		add("reset_token", *f.ResetToken)
	}
	return strings.Join(conds, " AND "), args
}
