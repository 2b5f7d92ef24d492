// Package cryptox implements the password digest used by the portal's
// credential store: a deterministic, hex-encoded SHA-256. No salt and
// no secret key, so the same password always produces the same digest
// and stored records can be matched without a verification primitive.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// DigestLength is the length of a hex-encoded SHA-256 digest.
	DigestLength = sha256.Size * 2

	// MinDigestLength is the threshold separating stored digests from
	// legacy plaintext passwords: any persisted password value shorter
	// than this is assumed to predate hashing and gets upgraded on the
	// next initialization pass.
	MinDigestLength = 60
)

// PasswordDigest returns the hex-encoded SHA-256 digest of password.
func PasswordDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsDigest reports whether the stored value is already a digest rather
// than legacy plaintext.
func IsDigest(stored string) bool {
	return len(stored) >= MinDigestLength
}
