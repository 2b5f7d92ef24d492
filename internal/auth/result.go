package auth

import "github.com/smsportal/portal/internal/models"

// FailureKind classifies an expected login failure. These are normal
// result variants, not errors; only storage faults surface as errors.
type FailureKind int

const (
	FailureNone FailureKind = iota

	// FailureLockedOut: the username is inside its lockout window, or
	// this very attempt pushed it over the limit. Credentials are not
	// consulted while locked.
	FailureLockedOut

	// FailureInvalidCredentials: unknown username or wrong password.
	// The message never says which.
	FailureInvalidCredentials

	// FailureRoleMismatch: credentials were correct but the account
	// belongs to a different portal. Does not touch the ledger.
	FailureRoleMismatch
)

// LoginResult is the outcome of a login call.
type LoginResult struct {
	OK      bool
	Kind    FailureKind
	Message string
	User    *models.SessionRecord
}

func failure(kind FailureKind, message string) LoginResult {
	return LoginResult{Kind: kind, Message: message}
}

// Redirect tells the routing collaborator where to send a caller that
// failed the access gate.
type Redirect int

const (
	RedirectNone Redirect = iota
	RedirectLogin
	RedirectHome
)

// AccessDecision is the result of the access gate consulted by every
// protected view before rendering.
type AccessDecision struct {
	Allowed  bool
	Redirect Redirect
	Reason   string
}
