package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBasicPayload(t *testing.T) {
	payload, ok := ExtractBasicPayload("Basic QWxhZGRpbjpPcGVuU2VzYW1l")
	require.True(t, ok)
	assert.Equal(t, "QWxhZGRpbjpPcGVuU2VzYW1l", payload)

	for _, header := range []string{
		"",
		"Bearer abc",
		"basic QWxhZGRpbjpPcGVuU2VzYW1l", // scheme is case-sensitive
		"BasicQWxhZGRpbjpPcGVuU2VzYW1l",  // missing space
	} {
		_, ok := ExtractBasicPayload(header)
		assert.False(t, ok, "header %q should not extract", header)
	}
}

func TestDecodeBasicPayload(t *testing.T) {
	text, ok := DecodeBasicPayload("QWxhZGRpbjpPcGVuU2VzYW1l")
	require.True(t, ok)
	assert.Equal(t, "Aladdin:OpenSesame", text)

	_, ok = DecodeBasicPayload("not base64!!!")
	assert.False(t, ok)

	// Valid base64, invalid UTF-8 payload.
	_, ok = DecodeBasicPayload("/w==")
	assert.False(t, ok)
}

func TestSplitCredentials(t *testing.T) {
	id, secret, ok := SplitCredentials("Aladdin:OpenSesame")
	require.True(t, ok)
	assert.Equal(t, "Aladdin", id)
	assert.Equal(t, "OpenSesame", secret)

	// Split on the first colon only; the secret may contain colons.
	id, secret, ok = SplitCredentials("user:pass:with:colons")
	require.True(t, ok)
	assert.Equal(t, "user", id)
	assert.Equal(t, "pass:with:colons", secret)

	_, _, ok = SplitCredentials("no separator here")
	assert.False(t, ok)
}
