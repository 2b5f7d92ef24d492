package auth

import (
	"time"

	"github.com/smsportal/portal/internal/cryptox"
	"github.com/smsportal/portal/internal/models"
)

// Fixed policy constants. These are deliberately not configuration:
// every deployment enforces the same lockout and idle rules.
const (
	// MaxLoginAttempts is the number of consecutive failures that locks
	// a username out.
	MaxLoginAttempts = 5

	// LockoutWindow is how long a locked-out username stays locked,
	// measured from the most recent failed attempt.
	LockoutWindow = 15 * time.Minute

	// IdleTimeout is the sliding-window session expiry, measured from
	// the last observed activity rather than from login time.
	IdleTimeout = 30 * time.Minute

	// sweepInterval is how often the background sweep forces the idle
	// check when no user action is occurring.
	sweepInterval = time.Minute
)

// CanonicalAdminUsername is the single current admin identifier that
// migration converges all legacy admin records toward.
const CanonicalAdminUsername = "admin@smsportal.com"

// legacyAdminUsername is the pre-migration admin identifier, also
// accepted as a login shorthand on the admin portal.
const legacyAdminUsername = "admin"

// Durable-store keys.
const (
	keyUsers         = "users"
	keyLoginAttempts = "login_attempts"
	keyRememberToken = "remember_token"
)

// Session-store key. At most one session exists per context.
const keySession = "session"

const defaultPassword = "123"

// defaultAdmin is the record appended whenever the store has no admin.
func defaultAdmin() models.UserRecord {
	return models.UserRecord{
		Username:       CanonicalAdminUsername,
		PasswordDigest: cryptox.PasswordDigest(defaultPassword),
		Role:           models.RoleAdmin,
		Name:           "Portal Administrator",
	}
}

// defaultUsers seeds a fresh store with one account per role.
func defaultUsers() []models.UserRecord {
	return []models.UserRecord{
		defaultAdmin(),
		{
			Username:       "teacher@smsportal.com",
			PasswordDigest: cryptox.PasswordDigest(defaultPassword),
			Role:           models.RoleTeacher,
			Name:           "Default Teacher",
		},
		{
			Username:       "student@smsportal.com",
			PasswordDigest: cryptox.PasswordDigest(defaultPassword),
			Role:           models.RoleStudent,
			Name:           "Default Student",
		},
	}
}
