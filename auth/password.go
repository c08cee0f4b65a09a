package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/argon2"

	"github.com/jmcleod/gatehouse/internal/util"
)

const saltLen = 16

// Argon2idParams captures the KDF settings embedded in every digest.
type Argon2idParams struct {
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
	KeyLen      uint32
}

func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      32,
	}
}

// PasswordHasher produces and verifies salted one-way password digests.
// Digests use the PHC string format with the salt embedded, so every call
// to Hash with the same input yields a different digest.
//
// An optional server-wide pepper can be configured; it is held in a
// memguard Enclave (encrypted at rest in memory) and mixed into the KDF
// input, so a storage dump alone is not enough to mount an offline attack.
type PasswordHasher struct {
	params Argon2idParams
	pepper *memguard.Enclave
}

// HasherOption customizes a PasswordHasher.
type HasherOption func(*PasswordHasher)

// WithParams overrides the default Argon2id parameters.
func WithParams(params Argon2idParams) HasherOption {
	return func(h *PasswordHasher) {
		h.params = params
	}
}

// WithPepper mixes the given secret into every digest. The slice is moved
// into an enclave and wiped; the caller must not reuse it.
func WithPepper(pepper []byte) HasherOption {
	return func(h *PasswordHasher) {
		if len(pepper) == 0 {
			return
		}
		h.pepper = memguard.NewEnclave(pepper)
	}
}

// NewPasswordHasher creates a hasher with the default Argon2id parameters.
func NewPasswordHasher(opts ...HasherOption) *PasswordHasher {
	h := &PasswordHasher{params: DefaultArgon2idParams()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives a salted digest for the given password. A fresh random salt
// is generated per call and embedded in the returned digest.
func (h *PasswordHasher) Hash(password string) string {
	salt, err := util.RandomBytes(saltLen)
	if err != nil {
		// crypto/rand is documented to never fail on supported platforms.
		memguard.SafePanic(err)
	}
	key := h.deriveKey(password, salt, h.params)
	defer util.WipeBytes(key)
	return encodeDigest(h.params, salt, key)
}

// Verify reports whether password matches digest. Malformed digests never
// panic or error; they simply do not match.
func (h *PasswordHasher) Verify(digest, password string) bool {
	params, salt, expected, err := decodeDigest(digest)
	if err != nil {
		return false
	}
	key := h.deriveKey(password, salt, params)
	defer util.WipeBytes(key)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func (h *PasswordHasher) deriveKey(password string, salt []byte, params Argon2idParams) []byte {
	secret := []byte(util.Normalize(password))
	if h.pepper != nil {
		buf, err := h.pepper.Open()
		if err != nil {
			memguard.SafePanic(err)
		}
		peppered := make([]byte, 0, len(secret)+buf.Size())
		peppered = append(peppered, secret...)
		peppered = append(peppered, buf.Bytes()...)
		buf.Destroy()
		util.WipeBytes(secret)
		secret = peppered
	}
	key := argon2.IDKey(secret, salt, params.Time, params.MemoryKiB, params.Parallelism, params.KeyLen)
	util.WipeBytes(secret)
	return key
}

// encodeDigest renders the PHC string form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<b64 salt>$<b64 key>
func encodeDigest(params Argon2idParams, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.MemoryKiB, params.Time, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func decodeDigest(digest string) (Argon2idParams, []byte, []byte, error) {
	var params Argon2idParams
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("malformed digest")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("malformed digest version: %w", err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("unsupported argon2 version: %d", version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.MemoryKiB, &params.Time, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("malformed digest parameters: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("malformed digest salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("malformed digest key: %w", err)
	}
	if len(key) == 0 {
		return params, nil, nil, fmt.Errorf("empty digest key")
	}
	params.KeyLen = uint32(len(key))
	return params, salt, key, nil
}
