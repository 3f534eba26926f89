// internal/app/features/adminusers/delete.go
package adminusers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /admin/users/{id}.
//
// Deletion is two-phase. Phase one removes the role assignment, which
// immediately strips the user of every capability even if phase two is
// interrupted. Phase two scrubs the user's references and removes the
// account:
//
//   - approver stamps on documents are nulled (the approved status stays)
//   - assigned_by on surviving role rows is nulled
//   - the user's history entries are removed
//   - the account and its tokens are deleted
//
// Phase two runs in a transaction where the deployment supports one,
// falling back to sequential writes on standalone Mongo.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w)
		return
	}
	if id.Hex() == u.ID {
		apierrors.Conflict(w, "Não é possível excluir o próprio usuário")
		return
	}

	account, err := h.Accounts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.NotFound(w)
			return
		}
		h.ErrLog.Dependency(w, r, "load account", err)
		return
	}

	// Phase one: revoke the role.
	if _, err := h.Roles.DeleteByUserID(r.Context(), id); err != nil {
		h.ErrLog.Dependency(w, r, "delete role assignment", err)
		return
	}

	// Phase two: scrub references, then the account itself.
	err = txn.Run(r.Context(), h.Client, func(ctx context.Context) error {
		if err := h.Docs.ClearApprovedBy(ctx, id); err != nil {
			return err
		}
		if err := h.Roles.ClearAssignedBy(ctx, id); err != nil {
			return err
		}
		if _, err := h.History.DeleteByChangedBy(ctx, id); err != nil {
			return err
		}
		_, err := h.Accounts.Delete(ctx, id)
		return err
	})
	if err != nil {
		// The role is already gone, so the user is locked out either
		// way; report the partial state loudly.
		h.Log.Error("user deletion cleanup failed after role removal",
			zap.String("user_id", id.Hex()),
			zap.Error(err))
		h.ErrLog.Dependency(w, r, "delete user cleanup", err)
		return
	}

	actor := actorOID(u)
	h.Audit.AdminAction(r.Context(), r, audit.EventUserDeleted, actor, &id,
		map[string]string{"email": account.Email})

	w.WriteHeader(http.StatusNoContent)
}
