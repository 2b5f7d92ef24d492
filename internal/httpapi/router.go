package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smsportal/portal/internal/auth"
	"github.com/smsportal/portal/internal/logging"
	"github.com/smsportal/portal/internal/models"
)

// NewRouter wires every route of the portal API.
func NewRouter(manager *auth.Manager, logger logging.Logger) http.Handler {
	h := NewHandlers(manager, logger)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(logger),
		middleware.Timeout(60*time.Second),
	)

	r.Get("/healthz", Healthz)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(RequireRoles(manager, models.RoleAdmin))
		r.Get("/users", h.ListUsers)
	})

	return r
}
