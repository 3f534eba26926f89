// internal/app/features/documents/routes.go
package documents

import (
	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/app/policy/rolepolicy"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/authz"
)

// Routes mounts the document endpoints under whatever base path the
// caller chooses (typically "/documents" from bootstrap).
//
// Everything requires a signed-in user. The coarse capability gates
// live here; per-document decisions (status, authorship) are made in
// the handlers against the stored record.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + STATS
		pr.Get("/", h.ServeList)
		pr.Get("/stats", h.ServeStats)

		// CREATE
		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanCreate })).
			Post("/", h.HandleCreate)

		// VIEW + HISTORY
		pr.Get("/{id}", h.ServeView)
		pr.Get("/{id}/history", h.ServeHistory)

		// EDIT (per-document gate in the handler)
		pr.Put("/{id}", h.HandleEdit)

		// WORKFLOW
		pr.Post("/{id}/submit", h.HandleSubmit)
		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanApprove })).
			Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/archive", h.HandleArchive)
		pr.Post("/{id}/restore", h.HandleRestore)

		// DELETE
		pr.With(authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanDelete })).
			Delete("/{id}", h.HandleDelete)
	})

	return r
}
