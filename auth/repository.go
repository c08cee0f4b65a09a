package auth

import "context"

// Filter selects users by exact field match. Exactly the set fields are
// matched; a Filter with no fields set is invalid. Empty-string values are
// invalid too, since an absent session id or reset token must never match
// the users that have none.
type Filter struct {
	ID         *int64
	Email      *string
	SessionID  *string
	ResetToken *string
}

// IsZero reports whether no filter field is set.
func (f Filter) IsZero() bool {
	return f.ID == nil && f.Email == nil && f.SessionID == nil && f.ResetToken == nil
}

// Valid reports whether the filter selects at least one field and carries
// no empty-string values.
func (f Filter) Valid() bool {
	if f.IsZero() {
		return false
	}
	for _, s := range []*string{f.Email, f.SessionID, f.ResetToken} {
		if s != nil && *s == "" {
			return false
		}
	}
	return true
}

func ByID(id int64) Filter             { return Filter{ID: &id} }
func ByEmail(email string) Filter      { return Filter{Email: &email} }
func BySessionID(id string) Filter     { return Filter{SessionID: &id} }
func ByResetToken(token string) Filter { return Filter{ResetToken: &token} }

// Changes is a partial update of a user record. Nil fields are left
// untouched; a pointer to the empty string clears the field.
type Changes struct {
	HashedPassword *string
	SessionID      *string
	ResetToken     *string
}

// Repository is the user-record collaborator. Implementations must enforce
// email uniqueness and surface duplicates as ErrConstraintViolation.
type Repository interface {
	// Add persists a new user. Returns ErrConstraintViolation when a user
	// with the same email already exists.
	Add(ctx context.Context, email, hashedPassword string) (*User, error)
	// FindBy returns the first user matching the filter, ErrNotFound when
	// none matches, or ErrInvalidArgument for an invalid filter.
	FindBy(ctx context.Context, filter Filter) (*User, error)
	// Update applies the given changes to the user with the given id.
	// Returns ErrNotFound when no such user exists.
	Update(ctx context.Context, id int64, changes Changes) error
}

func str(s string) *string {
	return &s
}
