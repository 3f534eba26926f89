// internal/app/features/documents/view.go
package documents

import (
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/policy/docpolicy"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
)

// ServeView handles GET /documents/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if !docpolicy.CanView(u.Role, doc.Status, isAuthor(u, doc)) {
		apierrors.Forbidden(w)
		return
	}

	apierrors.JSON(w, http.StatusOK, toResponse(*doc))
}

// ServeHistory handles GET /documents/{id}/history, newest first.
// Visible to whoever can view the document itself.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if !docpolicy.CanView(u.Role, doc.Status, isAuthor(u, doc)) {
		apierrors.Forbidden(w)
		return
	}

	entries, err := h.History.ListByDocument(r.Context(), doc.ID)
	if err != nil {
		h.ErrLog.Dependency(w, r, "list document history", err)
		return
	}
	apierrors.JSON(w, http.StatusOK, entries)
}
