// Package models defines the data records persisted by the portal's
// credential and session stores.
package models

import "fmt"

// Role identifies which portal a principal belongs to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole validates a role string coming from an external surface.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// UserRecord is one credentialed principal in the durable user store.
// The JSON tags match the persisted blob layout.
type UserRecord struct {
	// Username is the case-insensitive lookup key at login. Stored as
	// entered; normalization happens at comparison time.
	Username string `json:"username"`

	// PasswordDigest is the hex-encoded one-way hash of the password.
	// Values shorter than the digest threshold are legacy plaintext and
	// are upgraded during initialization.
	PasswordDigest string `json:"password,omitempty"`

	Role Role   `json:"role"`
	Name string `json:"name"`

	// ClassID references a class owned by an external module. Students only.
	ClassID string `json:"classId,omitempty"`
}

// Public returns a copy safe to hand to callers outside the credential
// store: the password digest is stripped.
func (u UserRecord) Public() UserRecord {
	u.PasswordDigest = ""
	return u
}
