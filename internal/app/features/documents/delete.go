// internal/app/features/documents/delete.go
package documents

import (
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/policy/docpolicy"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
)

// HandleDelete handles DELETE /documents/{id}. Gerente only. The
// document's history goes with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	if !docpolicy.CanDelete(u.Role) {
		apierrors.Forbidden(w)
		return
	}

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}

	if _, err := h.Docs.Delete(r.Context(), doc.ID); err != nil {
		h.ErrLog.Dependency(w, r, "delete document", err)
		return
	}
	if _, err := h.History.DeleteByDocument(r.Context(), doc.ID); err != nil {
		h.ErrLog.Dependency(w, r, "delete document history", err)
		return
	}

	actor := actorOID(u)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentDeleted, actor, doc.ID)

	w.WriteHeader(http.StatusNoContent)
}
