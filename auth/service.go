package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmcleod/gatehouse/internal/uuid"
)

// Service is the authentication facade consumed by request handlers. It
// composes a user Repository with a PasswordHasher and owns the
// session-id-on-user-record lifecycle and password-reset tokens.
//
// Routine outcomes (bad login, missing session) come back as false/absent
// results; only domain conditions the caller must act on (AlreadyExists,
// reset-token NotFound) and storage faults surface as errors.
type Service struct {
	users  Repository
	hasher *PasswordHasher
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithHasher replaces the default password hasher.
func WithHasher(h *PasswordHasher) ServiceOption {
	return func(s *Service) {
		s.hasher = h
	}
}

// NewService creates an authentication facade over the given repository.
func NewService(users Repository, opts ...ServiceOption) *Service {
	s := &Service{users: users, hasher: NewPasswordHasher()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register hashes the password and persists a new user. The email pre-check
// is advisory; the repository's uniqueness constraint is the ultimate guard
// against concurrent duplicate registration, and its violation is surfaced
// as ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrInvalidArgument)
	}
	_, err := s.users.FindBy(ctx, ByEmail(email))
	switch {
	case err == nil:
		return nil, fmt.Errorf("user %s: %w", email, ErrAlreadyExists)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	u, err := s.users.Add(ctx, email, s.hasher.Hash(password))
	if errors.Is(err, ErrConstraintViolation) {
		return nil, fmt.Errorf("user %s: %w", email, ErrAlreadyExists)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserByCredentials returns the user matching email whose password
// verifies. Unknown email and wrong password both yield ErrNotFound so the
// caller cannot distinguish which credential was wrong.
func (s *Service) UserByCredentials(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.FindBy(ctx, ByEmail(email))
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(u.HashedPassword, password) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return u, nil
}

// ValidLogin reports whether the credentials match a stored user. A missing
// user or failed verification is false, never an error; storage faults
// propagate unchanged.
func (s *Service) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.UserByCredentials(ctx, email, password)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateSession generates a fresh session id and stores it on the user
// record. A user holds at most one session id; a second call overwrites the
// first, invalidating the earlier session.
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindBy(ctx, ByEmail(email))
	if err != nil {
		return "", err
	}
	sessionID := uuid.New()
	if err := s.users.Update(ctx, u.ID, Changes{SessionID: str(sessionID)}); err != nil {
		return "", err
	}
	return sessionID, nil
}

// ResolveSession returns the user currently holding the session id, or
// ErrNotFound when the id is empty or unassigned.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	return s.users.FindBy(ctx, BySessionID(sessionID))
}

// DestroySession clears the stored session id for the user. Idempotent: a
// missing user or an already-cleared session is not an error.
func (s *Service) DestroySession(ctx context.Context, userID int64) error {
	err := s.users.Update(ctx, userID, Changes{SessionID: str("")})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// RequestResetToken generates and stores a fresh reset token for the user,
// overwriting (and so invalidating) any prior token.
func (s *Service) RequestResetToken(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindBy(ctx, ByEmail(email))
	if err != nil {
		return "", err
	}
	token := uuid.New()
	if err := s.users.Update(ctx, u.ID, Changes{ResetToken: str(token)}); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken updates the password of the user holding the token and
// clears the token, making it single-use.
func (s *Service) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("reset token and new password required: %w", ErrInvalidArgument)
	}
	u, err := s.users.FindBy(ctx, ByResetToken(token))
	if err != nil {
		return err
	}
	hashed := s.hasher.Hash(newPassword)
	return s.users.Update(ctx, u.ID, Changes{
		HashedPassword: str(hashed),
		ResetToken:     str(""),
	})
}

// UserByID returns the user with the given id.
func (s *Service) UserByID(ctx context.Context, id int64) (*User, error) {
	return s.users.FindBy(ctx, ByID(id))
}
