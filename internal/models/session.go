package models

// SessionRecord is the single active session persisted in the
// session-scoped store. It carries every UserRecord field except the
// password digest, which must never reach session storage.
type SessionRecord struct {
	// ID correlates log lines and API responses for one login.
	ID string `json:"id"`

	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	ClassID  string `json:"classId,omitempty"`

	// LoginTime is the RFC 3339 timestamp of session creation.
	LoginTime string `json:"loginTime"`

	// LastActive is epoch milliseconds of the most recent session read.
	// Every successful read refreshes it (sliding idle window).
	LastActive int64 `json:"lastActive"`
}

// LoginAttempt is one entry of the failed-login ledger, keyed by
// normalized username in the durable store.
type LoginAttempt struct {
	// Count of consecutive failures since the last success or lockout expiry.
	Count int `json:"count"`

	// LastAttempt is epoch milliseconds of the most recent failure.
	LastAttempt int64 `json:"lastAttempt"`
}
