// Package auth implements the portal's session and credential manager:
// one-time store initialization with legacy migration, rate-limited
// login with lockout, sliding-window idle sessions, remember-me
// auto-login, and the access gate consumed by routing code.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smsportal/portal/internal/cryptox"
	"github.com/smsportal/portal/internal/logging"
	"github.com/smsportal/portal/internal/models"
	"github.com/smsportal/portal/internal/storage"
)

// Manager owns the durable user/ledger/token records and the single
// ephemeral session record. Construct one at application start and pass
// it by reference to every surface that needs it.
//
// Every read-modify-write over the stores runs under one mutex; the
// ledger and the admin-existence check are critical sections and must
// not interleave with other mutations.
type Manager struct {
	durable storage.Store
	session storage.Store
	logger  logging.Logger

	mu sync.Mutex

	// initOnce is the shared in-flight/completed future for
	// initialization: the first caller does the work, concurrent
	// callers block on it, later callers observe the stored result.
	initOnce sync.Once
	initErr  error

	// now is swapped in tests to drive lockout and idle-timeout clocks.
	now func() time.Time

	sweepOnce sync.Once
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewManager builds a Manager over a durable and a session-scoped store.
func NewManager(durable, session storage.Store, logger logging.Logger) *Manager {
	return &Manager{
		durable: durable,
		session: session,
		logger:  logger.With("module", "auth"),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// Initialize prepares the durable store and must complete before any
// login. It is safe to call from any number of goroutines; exactly one
// seed/migration pass runs and all callers observe its result.
//
// Steps: seed an empty store, migrate legacy admin identifiers, ensure
// at least one admin exists, upgrade legacy plaintext passwords,
// attempt remember-me auto-login, start the idle sweep.
func (m *Manager) Initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		m.initErr = m.initialize(ctx)
	})
	return m.initErr
}

func (m *Manager) initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	users, existed, err := m.loadUsers(ctx)
	if err != nil {
		return err
	}

	modified := false

	if !existed {
		users = defaultUsers()
		modified = true
		m.logger.Info(ctx, "seeded default accounts", "count", len(users))
	} else if m.migrateLegacyAdmin(users) {
		modified = true
		// Never leave a migrated admin locked out under either spelling.
		if err := m.clearAttempts(ctx, legacyAdminUsername, CanonicalAdminUsername); err != nil {
			return err
		}
		m.logger.Info(ctx, "migrated legacy admin username")
	}

	if !hasAdmin(users) {
		users = append(users, defaultAdmin())
		modified = true
		m.logger.Warn(ctx, "no admin account found, restored default admin")
	}

	for i := range users {
		if !cryptox.IsDigest(users[i].PasswordDigest) {
			users[i].PasswordDigest = cryptox.PasswordDigest(users[i].PasswordDigest)
			modified = true
		}
	}

	// Persist on any change, and always on first run even if the seed
	// happens to match what a change-detection pass would skip.
	if modified || !existed {
		if err := m.saveUsers(ctx, users); err != nil {
			return err
		}
	}

	if err := m.autoLogin(ctx, users); err != nil {
		return err
	}

	m.startSweep()
	return nil
}

func (m *Manager) migrateLegacyAdmin(users []models.UserRecord) bool {
	migrated := false
	for i := range users {
		if users[i].Role == models.RoleAdmin && normalizeUsername(users[i].Username) == legacyAdminUsername {
			users[i].Username = CanonicalAdminUsername
			migrated = true
		}
	}
	return migrated
}

func hasAdmin(users []models.UserRecord) bool {
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			return true
		}
	}
	return false
}

// autoLogin synthesizes a session from a stored remember token when no
// session exists. The token bypasses the password and the ledger; it
// matches the stored raw username exactly, without normalization.
func (m *Manager) autoLogin(ctx context.Context, users []models.UserRecord) error {
	raw, err := m.session.Get(ctx, keySession)
	if err != nil {
		return err
	}
	if raw != nil {
		return nil
	}

	token, err := m.durable.Get(ctx, keyRememberToken)
	if err != nil {
		return err
	}
	if token == nil {
		return nil
	}

	username, err := DecodeRememberToken(string(token))
	if err != nil {
		m.logger.Warn(ctx, "ignoring undecodable remember token")
		return nil
	}

	for _, u := range users {
		if u.Username == username {
			sess, err := m.createSession(ctx, u)
			if err != nil {
				return err
			}
			m.logger.Info(ctx, "restored session from remember token",
				"username", u.Username, "session_id", sess.ID)
			return nil
		}
	}
	return nil
}

// Login authenticates username/password. expectedRole restricts which
// portal the account may enter ("" accepts any role); rememberMe stores
// a token for silent re-login. Expected failures (lockout, bad
// credentials, wrong portal) come back inside LoginResult; only storage
// faults are returned as errors.
func (m *Manager) Login(ctx context.Context, username, password string, expectedRole models.Role, rememberMe bool) (LoginResult, error) {
	if err := m.Initialize(ctx); err != nil {
		return LoginResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	norm := normalizeUsername(username)
	// The admin portal accepts the bare legacy shorthand.
	if expectedRole == models.RoleAdmin && norm == legacyAdminUsername {
		norm = CanonicalAdminUsername
	}

	ledger, err := m.loadAttempts(ctx)
	if err != nil {
		return LoginResult{}, err
	}
	entry := ledger[norm]
	now := m.now()

	if entry.Count >= MaxLoginAttempts {
		elapsed := time.Duration(now.UnixMilli()-entry.LastAttempt) * time.Millisecond
		if remaining := LockoutWindow - elapsed; remaining > 0 {
			minutes := int(math.Ceil(remaining.Minutes()))
			return failure(FailureLockedOut,
				fmt.Sprintf("Account is locked. Try again in %d minute(s).", minutes)), nil
		}
		// Window elapsed: grant exactly one fresh attempt. The reset is
		// not persisted until this attempt's outcome writes the ledger.
		entry.Count = 0
	}

	digest := cryptox.PasswordDigest(password)

	users, _, err := m.loadUsers(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	var match *models.UserRecord
	for i := range users {
		if normalizeUsername(users[i].Username) == norm && users[i].PasswordDigest == digest {
			match = &users[i]
			break
		}
	}

	if match == nil {
		entry.Count++
		entry.LastAttempt = now.UnixMilli()
		ledger[norm] = entry
		if err := m.saveAttempts(ctx, ledger); err != nil {
			return LoginResult{}, err
		}
		if entry.Count >= MaxLoginAttempts {
			m.logger.Warn(ctx, "account locked out", "username", norm)
			return failure(FailureLockedOut,
				fmt.Sprintf("Too many failed attempts. Account is locked for %d minutes.",
					int(LockoutWindow.Minutes()))), nil
		}
		return failure(FailureInvalidCredentials,
			fmt.Sprintf("Invalid username or password. %d attempt(s) remaining.",
				MaxLoginAttempts-entry.Count)), nil
	}

	// Role check runs only after credentials are verified, and a wrong
	// portal does not count as a failed attempt.
	if expectedRole != "" && match.Role != expectedRole {
		return failure(FailureRoleMismatch,
			fmt.Sprintf("Access denied. This portal is for %s accounts.", expectedRole)), nil
	}

	// Full reset: the entry is removed, not zeroed.
	delete(ledger, norm)
	if err := m.saveAttempts(ctx, ledger); err != nil {
		return LoginResult{}, err
	}

	sess, err := m.createSession(ctx, *match)
	if err != nil {
		return LoginResult{}, err
	}

	if rememberMe {
		// The token keeps the raw input username, not the normalized form.
		if err := m.durable.Set(ctx, keyRememberToken, []byte(EncodeRememberToken(username))); err != nil {
			return LoginResult{}, err
		}
	} else {
		if err := m.durable.Delete(ctx, keyRememberToken); err != nil {
			return LoginResult{}, err
		}
	}

	m.logger.Info(ctx, "login succeeded",
		"username", match.Username, "role", match.Role, "session_id", sess.ID)
	return LoginResult{OK: true, User: sess}, nil
}

// createSession copies the record minus its digest into session storage.
func (m *Manager) createSession(ctx context.Context, u models.UserRecord) (*models.SessionRecord, error) {
	now := m.now()
	sess := &models.SessionRecord{
		ID:         uuid.NewString(),
		Username:   u.Username,
		Role:       u.Role,
		Name:       u.Name,
		ClassID:    u.ClassID,
		LoginTime:  now.Format(time.RFC3339),
		LastActive: now.UnixMilli(),
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.session.Set(ctx, keySession, raw); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentUser returns the active session, or nil when none exists. A
// session idle past IdleTimeout is evicted here, with logout side
// effects. A surviving session has its activity stamp refreshed, so
// every call extends the sliding idle window.
func (m *Manager) CurrentUser(ctx context.Context) (*models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentUserLocked(ctx)
}

func (m *Manager) currentUserLocked(ctx context.Context) (*models.SessionRecord, error) {
	raw, err := m.session.Get(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var sess models.SessionRecord
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt session record is treated as no session.
		_ = m.session.Delete(ctx, keySession)
		return nil, nil
	}

	now := m.now()
	if now.UnixMilli()-sess.LastActive > IdleTimeout.Milliseconds() {
		if err := m.logoutLocked(ctx); err != nil {
			return nil, err
		}
		m.logger.Info(ctx, "session expired",
			"username", sess.Username, "session_id", sess.ID)
		return nil, nil
	}

	sess.LastActive = now.UnixMilli()
	updated, err := json.Marshal(&sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.session.Set(ctx, keySession, updated); err != nil {
		return nil, err
	}
	return &sess, nil
}

// IsAuthenticated reports whether a session record is present. It does
// NOT check expiry: a stale-but-present record still counts until the
// next CurrentUser call evicts it. Routing code relies on checking this
// before CurrentUser, so the asymmetry is part of the contract.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.session.Get(ctx, keySession)
	if err != nil {
		m.logger.Error(ctx, "failed to read session", "error", err.Error())
		return false
	}
	return raw != nil
}

// Logout unconditionally clears the session and the remember token.
// Navigation back to an unauthenticated view is the caller's job.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutLocked(ctx)
}

func (m *Manager) logoutLocked(ctx context.Context) error {
	if err := m.session.Delete(ctx, keySession); err != nil {
		return err
	}
	return m.durable.Delete(ctx, keyRememberToken)
}

// CheckAccess is the single enforcement point protected views call
// before rendering. No session means redirect to login; a session with
// a role outside allowed (when non-empty) means access denied and
// redirect home.
func (m *Manager) CheckAccess(ctx context.Context, allowed ...models.Role) AccessDecision {
	sess, err := m.CurrentUser(ctx)
	if err != nil {
		m.logger.Error(ctx, "access check failed", "error", err.Error())
		return AccessDecision{Redirect: RedirectLogin, Reason: "authentication required"}
	}
	if sess == nil {
		return AccessDecision{Redirect: RedirectLogin, Reason: "authentication required"}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, sess.Role) {
		return AccessDecision{Redirect: RedirectHome, Reason: "access denied"}
	}
	return AccessDecision{Allowed: true}
}

// Users returns the directory of user records with digests stripped.
func (m *Manager) Users(ctx context.Context) ([]models.UserRecord, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users, _, err := m.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]models.UserRecord, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	return public, nil
}

// startSweep launches the periodic idle check: with no user action
// occurring, this is what actually enforces idle logout.
func (m *Manager) startSweep() {
	m.sweepOnce.Do(func() {
		go m.sweep()
	})
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if m.IsAuthenticated(ctx) {
				_, _ = m.CurrentUser(ctx)
			}
			cancel()
		}
	}
}

// Close stops the idle sweep. Safe to call more than once.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// loadUsers reads the user store. Missing or corrupt JSON is treated as
// absence so initialization can self-heal by reseeding.
func (m *Manager) loadUsers(ctx context.Context) ([]models.UserRecord, bool, error) {
	raw, err := m.durable.Get(ctx, keyUsers)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	var users []models.UserRecord
	if err := json.Unmarshal(raw, &users); err != nil {
		m.logger.Warn(ctx, "user store is corrupt, reseeding")
		return nil, false, nil
	}
	return users, true, nil
}

func (m *Manager) saveUsers(ctx context.Context, users []models.UserRecord) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	return m.durable.Set(ctx, keyUsers, raw)
}

// loadAttempts reads the failed-login ledger. Corrupt JSON yields an
// empty ledger rather than an error.
func (m *Manager) loadAttempts(ctx context.Context) (map[string]models.LoginAttempt, error) {
	raw, err := m.durable.Get(ctx, keyLoginAttempts)
	if err != nil {
		return nil, err
	}
	ledger := make(map[string]models.LoginAttempt)
	if raw == nil {
		return ledger, nil
	}
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return make(map[string]models.LoginAttempt), nil
	}
	return ledger, nil
}

func (m *Manager) saveAttempts(ctx context.Context, ledger map[string]models.LoginAttempt) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to encode login attempts: %w", err)
	}
	return m.durable.Set(ctx, keyLoginAttempts, raw)
}

func (m *Manager) clearAttempts(ctx context.Context, usernames ...string) error {
	ledger, err := m.loadAttempts(ctx)
	if err != nil {
		return err
	}
	for _, u := range usernames {
		delete(ledger, normalizeUsername(u))
	}
	return m.saveAttempts(ctx, ledger)
}
