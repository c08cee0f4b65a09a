package auth

// User is an identity record. SessionID and ResetToken are empty when no
// session is active or no password reset is pending; the plaintext password
// is never stored, only the salted digest.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	SessionID      string
	ResetToken     string
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
