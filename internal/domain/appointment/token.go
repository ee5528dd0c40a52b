package appointment

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// TokenLength is the hex length of a raw management token (256 bits).
const TokenLength = 64

var ErrMalformedToken = errors.New("malformed management token")

// ManagementToken is the bearer capability for one appointment. Only the hash
// is persisted, the raw value is handed to the client once.
type ManagementToken struct {
	raw       string
	hash      string
	expiresAt time.Time
}

func NewManagementToken(raw string, expiresAt time.Time) (ManagementToken, error) {
	if !IsWellFormedToken(raw) {
		return ManagementToken{}, ErrMalformedToken
	}
	return ManagementToken{raw: raw, hash: HashToken(raw), expiresAt: expiresAt}, nil
}

// ReconstructToken rebuilds a stored token, the raw value is not recoverable.
func ReconstructToken(hash string, expiresAt time.Time) ManagementToken {
	return ManagementToken{hash: hash, expiresAt: expiresAt}
}

func (t ManagementToken) Raw() string          { return t.raw }
func (t ManagementToken) Hash() string         { return t.hash }
func (t ManagementToken) ExpiresAt() time.Time { return t.expiresAt }
func (t ManagementToken) IsZero() bool         { return t.hash == "" }

// ExpiredAt is true strictly after expiresAt.
func (t ManagementToken) ExpiredAt(now time.Time) bool {
	return now.After(t.expiresAt)
}

func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func IsWellFormedToken(raw string) bool {
	if len(raw) != TokenLength {
		return false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
