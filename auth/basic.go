package auth

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const basicScheme = "Basic "

// ExtractBasicPayload returns the base64 payload of a Basic-Authentication
// header. ok is false unless the header starts with the literal "Basic "
// scheme prefix.
func ExtractBasicPayload(header string) (string, bool) {
	payload, found := strings.CutPrefix(header, basicScheme)
	if !found {
		return "", false
	}
	return payload, true
}

// DecodeBasicPayload base64-decodes a Basic-Authentication payload. ok is
// false if the payload is not valid base64 or does not decode to UTF-8 text.
func DecodeBasicPayload(payload string) (string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// SplitCredentials splits decoded Basic credentials into identifier and
// secret on the first ':' only, so the secret may itself contain colons.
func SplitCredentials(text string) (string, string, bool) {
	identifier, secret, found := strings.Cut(text, ":")
	if !found {
		return "", "", false
	}
	return identifier, secret, true
}
