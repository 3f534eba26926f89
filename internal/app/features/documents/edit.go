// internal/app/features/documents/edit.go
package documents

import (
	"encoding/json"
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/policy/docpolicy"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/inputval"
	"github.com/matheusmeigre/docportal/internal/app/system/sanitize"
	"github.com/matheusmeigre/docportal/internal/domain/models"
)

// HandleEdit handles PUT /documents/{id}.
//
// The edit gate depends on the document's stored status and authorship,
// so the record is loaded before the policy check. Status is not
// editable here; transitions go through their own endpoints.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if !docpolicy.CanEdit(u.Role, doc.Status, isAuthor(u, doc)) {
		apierrors.Forbidden(w)
		return
	}

	var in inputval.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}

	in.Title = sanitize.Text(in.Title)
	in.Content = sanitize.Text(in.Content)
	in.Status = "" // transitions have their own endpoints
	if ferr := inputval.ValidateDocument(in); ferr != nil {
		apierrors.Validation(w, ferr)
		return
	}

	updated, err := h.Docs.UpdateContent(r.Context(), doc.ID, documentstore.ContentUpdate{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: inputval.CategoryOID(in),
	})
	if err != nil {
		h.ErrLog.Dependency(w, r, "update document", err)
		return
	}

	actor := actorOID(u)
	h.snapshot(r, updated, actor, models.ChangeUpdated)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentUpdated, actor, updated.ID)

	apierrors.JSON(w, http.StatusOK, toResponse(*updated))
}
