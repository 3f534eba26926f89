// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
)

// Routes mounts the auth endpoints. /login is open; /me resolves
// whatever identity LoadUser attached and 401s when there is none.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Get("/me", h.ServeMe)
	return r
}
