package api

import "strings"

// RequireAuth reports whether the given request path needs authentication.
// Paths are matched against the excluded list slash-insensitively: "/status"
// and "/status/" are the same path. An excluded entry ending in "*" matches
// every path with that prefix. An empty path or an empty excluded list
// always requires authentication.
func RequireAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}
	normalized := path
	if !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	for _, entry := range excluded {
		if entry == "" {
			continue
		}
		if rest, ok := strings.CutSuffix(entry, "*"); ok {
			if strings.HasPrefix(normalized, rest) {
				return false
			}
			continue
		}
		if !strings.HasSuffix(entry, "/") {
			entry += "/"
		}
		if normalized == entry {
			return false
		}
	}
	return true
}
