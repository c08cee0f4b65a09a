// Package session provides session-id storage for cookie-based
// authentication. A Store maps opaque session ids to user ids; variants
// add expiry and durable persistence.
package session

// Store maps session ids to user ids.
//
// Create returns a fresh session id for the given user, or false when the
// user id is unusable. Lookup reports the owning user of a session id, or
// false when the session is absent or expired. Destroy removes a session
// and reports whether one was removed.
type Store interface {
	Create(userID string) (string, bool)
	Lookup(sessionID string) (string, bool)
	Destroy(sessionID string) bool
}
