// internal/app/features/documents/create.go
package documents

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/matheusmeigre/docportal/internal/app/policy/docpolicy"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/inputval"
	"github.com/matheusmeigre/docportal/internal/app/system/sanitize"
	"github.com/matheusmeigre/docportal/internal/domain/models"
)

// HandleCreate handles POST /documents.
//
// The initial status is derived from the creator's role, not from the
// payload: a Gerente's new document is born approved, everyone else
// starts at Rascunho.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var in inputval.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}

	in.Title = sanitize.Text(in.Title)
	in.Content = sanitize.Text(in.Content)
	if ferr := inputval.ValidateDocument(in); ferr != nil {
		apierrors.Validation(w, ferr)
		return
	}

	actor := actorOID(u)
	doc := models.Document{
		Title:      in.Title,
		Content:    in.Content,
		Status:     docpolicy.InitialStatus(u.Role),
		CategoryID: inputval.CategoryOID(in),
		AuthorID:   actor,
	}
	if doc.Status == models.StatusAprovado {
		// Born approved: the creator is also the approver.
		now := time.Now()
		doc.ApprovedBy = &actor
		doc.ApprovedAt = &now
	}

	created, err := h.Docs.Create(r.Context(), doc)
	if err != nil {
		h.ErrLog.Dependency(w, r, "create document", err)
		return
	}

	h.snapshot(r, &created, actor, models.ChangeCreated)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentCreated, actor, created.ID)

	apierrors.JSON(w, http.StatusCreated, toResponse(created))
}
