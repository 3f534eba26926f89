// internal/app/features/adminusers/routes.go
package adminusers

import (
	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/app/policy/rolepolicy"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/authz"
)

// Routes mounts the admin user endpoints (typically under
// "/admin/users"). Each operation is gated by its own capability so
// the Coordenador's view-only access falls out of the table.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanViewUsers })).
			Get("/", h.ServeList)

		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanManageUsers })).
			Post("/", h.HandleCreate)

		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanEditUsers })).
			Patch("/{id}", h.HandleUpdate)

		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanDeleteUsers })).
			Delete("/{id}", h.HandleDelete)
	})

	return r
}
