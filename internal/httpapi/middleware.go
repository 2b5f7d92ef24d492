package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/smsportal/portal/internal/auth"
	"github.com/smsportal/portal/internal/logging"
	"github.com/smsportal/portal/internal/models"
)

// RequireRoles gates a route on the access check. Unauthenticated
// callers get 401 with a login redirect hint; authenticated callers
// with the wrong role get 403 and are pointed home.
func RequireRoles(manager *auth.Manager, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := manager.CheckAccess(r.Context(), allowed...)
			if !decision.Allowed {
				if decision.Redirect == auth.RedirectLogin {
					writeJSON(w, http.StatusUnauthorized, map[string]string{
						"error":    decision.Reason,
						"redirect": "/login",
					})
					return
				}
				writeJSON(w, http.StatusForbidden, map[string]string{
					"error":    decision.Reason,
					"redirect": "/",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one structured line per request.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
