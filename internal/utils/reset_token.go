package utils

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for reset tokens
	"encoding/hex"  // hex encoding of random bytes and digests
	"time"          // expiry computation
)

// ResetToken represents a single-use password-reset credential. The Raw
// field is the string mailed to the user; in the database only a SHA-256
// hash of it is stored, so a leaked table cannot be replayed.
type ResetToken struct {
	Raw string    // raw token string sent in the reset link
	Exp time.Time // UTC expiration time
}

// NewResetToken returns a cryptographically secure random token and its
// expiration, ttlMin minutes from now.
func NewResetToken(ttlMin int) (ResetToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return ResetToken{}, err
	}
	return ResetToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute),
	}, nil
}

// HashResetRaw returns the SHA-256 hash of the raw reset token as a hex
// string. This is the value looked up when the token is redeemed.
func HashResetRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
