package util

import (
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKD normalization so that visually identical
// passphrases typed on different platforms hash to the same digest.
func Normalize(s string) string {
	return norm.NFKD.String(s)
}
