// Package uuid wraps UUID generation behind a tiny interface so the rest
// of the codebase never depends on the generator library directly.
package uuid

import "github.com/google/uuid"

// New returns a fresh random UUID as a string.
func New() string {
	return uuid.NewString()
}
