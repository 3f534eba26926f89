// internal/app/features/categories/routes.go
package categories

import (
	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/app/policy/rolepolicy"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/authz"
)

// Routes mounts the category endpoints (typically under "/categories").
// Reading is open to any signed-in user; management requires the
// category capability.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)

		pr.Group(func(mr chi.Router) {
			mr.Use(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanManageCategories }))
			mr.Post("/", h.HandleCreate)
			mr.Put("/{id}", h.HandleUpdate)
			mr.Delete("/{id}", h.HandleDelete)
		})
	})

	return r
}
