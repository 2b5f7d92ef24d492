// Package httpapi exposes the session and credential manager over a
// JSON HTTP API for the portal's browser frontend.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/smsportal/portal/internal/auth"
	"github.com/smsportal/portal/internal/logging"
	"github.com/smsportal/portal/internal/models"
)

// Handlers holds the dependencies shared by all endpoints.
type Handlers struct {
	manager *auth.Manager
	logger  logging.Logger
}

func NewHandlers(manager *auth.Manager, logger logging.Logger) *Handlers {
	return &Handlers{manager: manager, logger: logger.With("module", "httpapi")}
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// Login authenticates a user. Expected failures map onto status codes:
// 423 while locked out, 401 for bad credentials, 403 for the wrong
// portal. The body carries the human-readable message in either case.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var expectedRole models.Role
	if req.Role != "" {
		role, err := models.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		expectedRole = role
	}

	res, err := h.manager.Login(r.Context(), req.Username, req.Password, expectedRole, req.RememberMe)
	if err != nil {
		h.logger.Error(r.Context(), "login failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !res.OK {
		status := http.StatusUnauthorized
		switch res.Kind {
		case auth.FailureLockedOut:
			status = http.StatusLocked
		case auth.FailureRoleMismatch:
			status = http.StatusForbidden
		}
		writeError(w, status, res.Message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": res.User})
}

// Logout clears the session and remember token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Logout(r.Context()); err != nil {
		h.logger.Error(r.Context(), "logout failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current session, refreshing its activity stamp.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.CurrentUser(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "session read failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": sess})
}

// ListUsers returns the account directory, digests stripped. Reached
// only through the admin gate.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.manager.Users(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "user listing failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
