// internal/app/features/logout/handler.go
package logout

import (
	"net/http"
	"strings"

	accountstore "github.com/matheusmeigre/docportal/internal/app/store/accounts"
	"github.com/matheusmeigre/docportal/internal/app/system/auditlog"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Accounts   *accountstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(accounts *accountstore.Store, sessionMgr *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:   accounts,
		SessionMgr: sessionMgr,
		AuditLog:   auditLog,
		Log:        logger,
	}
}

// HandleLogout handles POST /auth/logout. It revokes the bearer token
// that authenticated the request, if one was sent, and expires the
// cookie session. Always answers 204; logout is idempotent.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.Accounts.RevokeToken(r.Context(), token); err != nil {
			h.Log.Warn("token revocation failed during logout", zap.Error(err))
		}
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session teardown failed during logout", zap.Error(err))
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
