// internal/app/features/documents/workflow.go
package documents

import (
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/policy/docpolicy"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/domain/models"
)

// HandleSubmit handles POST /documents/{id}/submit, moving a Rascunho
// to Aguardando Aprovação. Author-only: putting a draft up for
// approval is the author's call, even where others may edit it.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if !isAuthor(u, doc) || !docpolicy.CanEdit(u.Role, doc.Status, true) {
		apierrors.Forbidden(w)
		return
	}
	if doc.Status != models.StatusRascunho {
		apierrors.Conflict(w, "Documento não está em rascunho")
		return
	}

	updated, err := h.Docs.SetStatus(r.Context(), doc.ID, models.StatusAguardando)
	if err != nil {
		h.ErrLog.Dependency(w, r, "submit document", err)
		return
	}

	actor := actorOID(u)
	h.snapshot(r, updated, actor, models.ChangeUpdated)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentSubmitted, actor, updated.ID)

	apierrors.JSON(w, http.StatusOK, toResponse(*updated))
}

// HandleApprove handles POST /documents/{id}/approve.
//
// The approval predicate needs the author's role: a Coordenador may
// only approve pending submissions authored by an Analista, while a
// Gerente may approve anything.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}

	authorRole, err := h.Roles.RoleOf(r.Context(), doc.AuthorID.Hex())
	if err != nil {
		h.ErrLog.Dependency(w, r, "resolve author role", err)
		return
	}
	if !docpolicy.CanApprove(u.Role, doc.Status, authorRole) {
		apierrors.Forbidden(w)
		return
	}
	if doc.Status == models.StatusAprovado {
		apierrors.Conflict(w, "Documento já aprovado")
		return
	}

	actor := actorOID(u)
	updated, err := h.Docs.Approve(r.Context(), doc.ID, actor)
	if err != nil {
		h.ErrLog.Dependency(w, r, "approve document", err)
		return
	}

	h.snapshot(r, updated, actor, models.ChangeApproved)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentApproved, actor, updated.ID)

	apierrors.JSON(w, http.StatusOK, toResponse(*updated))
}

// HandleArchive handles POST /documents/{id}/archive, moving an
// approved document to Arquivado.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if !docpolicy.CanEdit(u.Role, doc.Status, isAuthor(u, doc)) {
		apierrors.Forbidden(w)
		return
	}
	if doc.Status != models.StatusAprovado {
		apierrors.Conflict(w, "Somente documentos aprovados podem ser arquivados")
		return
	}

	updated, err := h.Docs.SetStatus(r.Context(), doc.ID, models.StatusArquivado)
	if err != nil {
		h.ErrLog.Dependency(w, r, "archive document", err)
		return
	}

	actor := actorOID(u)
	h.snapshot(r, updated, actor, models.ChangeArchived)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentArchived, actor, updated.ID)

	apierrors.JSON(w, http.StatusOK, toResponse(*updated))
}

// HandleRestore handles POST /documents/{id}/restore, returning an
// archived document to Aprovado. The approval stamp from before the
// archive is preserved.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if !docpolicy.CanEdit(u.Role, doc.Status, isAuthor(u, doc)) {
		apierrors.Forbidden(w)
		return
	}
	if doc.Status != models.StatusArquivado {
		apierrors.Conflict(w, "Documento não está arquivado")
		return
	}

	updated, err := h.Docs.SetStatus(r.Context(), doc.ID, models.StatusAprovado)
	if err != nil {
		h.ErrLog.Dependency(w, r, "restore document", err)
		return
	}

	actor := actorOID(u)
	h.snapshot(r, updated, actor, models.ChangeRestored)
	h.Audit.DocumentAction(r.Context(), r, audit.EventDocumentRestored, actor, updated.ID)

	apierrors.JSON(w, http.StatusOK, toResponse(*updated))
}
