// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/domain/models"
)

// Routes mounts the audit endpoints. The trail exposes login failures
// and administrative actions, so only Gerente may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleGerente))
		pr.Get("/", h.ServeList)
		pr.Get("/failed-logins", h.ServeFailedLogins)
	})

	return r
}
