package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository is a thread-safe in-memory Repository. Records are lost
// on process restart; suitable for testing, demos, and single-process use.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*User
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]*User)}
}

func (r *MemoryRepository) Add(ctx context.Context, email, hashedPassword string) (*User, error) {
	if email == "" || hashedPassword == "" {
		return nil, fmt.Errorf("email and hashed password required: %w", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return nil, fmt.Errorf("email %q: %w", email, ErrConstraintViolation)
		}
	}
	r.nextID++
	u := &User{ID: r.nextID, Email: email, HashedPassword: hashedPassword}
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *MemoryRepository) FindBy(ctx context.Context, filter Filter) (*User, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("user filter: %w", ErrInvalidArgument)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	// Deterministic iteration so FindBy is stable across calls.
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if matches(r.users[id], filter) {
			return cloneUser(r.users[id]), nil
		}
	}
	return nil, fmt.Errorf("user: %w", ErrNotFound)
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, changes Changes) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	applyChanges(u, changes)
	return nil
}

func matches(u *User, f Filter) bool {
	if f.ID != nil && u.ID != *f.ID {
		return false
	}
	if f.Email != nil && u.Email != *f.Email {
		return false
	}
	if f.SessionID != nil && u.SessionID != *f.SessionID {
		return false
	}
	if f.ResetToken != nil && u.ResetToken != *f.ResetToken {
		return false
	}
	return true
}

func applyChanges(u *User, c Changes) {
	if c.HashedPassword != nil {
		u.HashedPassword = *c.HashedPassword
	}
	if c.SessionID != nil {
		u.SessionID = *c.SessionID
	}
	if c.ResetToken != nil {
		u.ResetToken = *c.ResetToken
	}
}
