package auth

import (
	"encoding/base64"

	"github.com/smsportal/portal/internal/common"
)

// The remember token is a reversible encoding of a username, nothing
// more: a UX convenience explicitly weaker than the session and lockout
// guarantees. It is not signed and grants nothing by itself beyond
// skipping the password prompt on the machine that stored it.

// EncodeRememberToken encodes the raw (non-normalized) input username.
func EncodeRememberToken(username string) string {
	return base64.StdEncoding.EncodeToString([]byte(username))
}

// DecodeRememberToken recovers the username from a stored token.
// Returns common.ErrInvalidToken for anything that does not decode.
func DecodeRememberToken(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", common.ErrInvalidToken
	}
	return string(raw), nil
}
