// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/policy/rolepolicy"
	accountstore "github.com/matheusmeigre/docportal/internal/app/store/accounts"
	rolestore "github.com/matheusmeigre/docportal/internal/app/store/roles"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auditlog"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the credential login endpoint. A successful login
// returns a bearer token for API clients and also establishes a cookie
// session for browser clients; both paths resolve to the same user.
type Handler struct {
	Accounts   *accountstore.Store
	Roles      *rolestore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	ErrLog     *apierrors.Logger
	Log        *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(db *mongo.Database, accounts *accountstore.Store, sm *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:   accounts,
		Roles:      rolestore.New(db),
		SessionMgr: sm,
		AuditLog:   auditLog,
		ErrLog:     apierrors.NewLogger(logger),
		Log:        logger,
	}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type loginUser struct {
	ID           string                  `json:"id"`
	Email        string                  `json:"email"`
	Role         string                  `json:"role,omitempty"`
	Capabilities rolepolicy.Capabilities `json:"capabilities"`
}

// HandleLogin handles POST /auth/login.
//
// Unknown email and wrong password both come back as the same 401 so
// the endpoint cannot be used to probe which emails are registered;
// the audit trail records which case it actually was.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}
	in.Email = normalize.Email(in.Email)
	if in.Email == "" || in.Password == "" {
		apierrors.Unauthorized(w, "Email ou senha inválidos")
		return
	}

	account, err := h.Accounts.VerifyPassword(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, accountstore.ErrInvalidCredentials) {
			// Distinguish the cases in the audit trail only.
			if existing, lookupErr := h.Accounts.GetByEmail(r.Context(), in.Email); lookupErr == nil {
				h.AuditLog.LoginFailedWrongPassword(r.Context(), r, existing.ID, in.Email)
			} else {
				h.AuditLog.LoginFailedUserNotFound(r.Context(), r, in.Email)
			}
			apierrors.Unauthorized(w, "Email ou senha inválidos")
			return
		}
		h.ErrLog.Dependency(w, r, "verify credentials", err)
		return
	}

	token, err := h.Accounts.IssueToken(r.Context(), account.ID)
	if err != nil {
		h.ErrLog.Dependency(w, r, "issue token", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, account.ID.Hex(), account.Email); err != nil {
		h.Log.Warn("cookie session could not be established",
			zap.String("user_id", account.ID.Hex()),
			zap.Error(err))
	}

	role, err := h.Roles.RoleOf(r.Context(), account.ID.Hex())
	if err != nil {
		h.ErrLog.Dependency(w, r, "resolve role", err)
		return
	}

	h.AuditLog.LoginSuccess(r.Context(), r, account.ID, account.Email)

	apierrors.JSON(w, http.StatusOK, loginResponse{
		Token: token.Token,
		User: loginUser{
			ID:           account.ID.Hex(),
			Email:        account.Email,
			Role:         role,
			Capabilities: rolepolicy.For(role),
		},
	})
}

// ServeMe handles GET /auth/me: the resolved caller with their
// capability set, for clients that drive UI state from it.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w, "Missing bearer token")
		return
	}
	apierrors.JSON(w, http.StatusOK, loginUser{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		Capabilities: rolepolicy.For(u.Role),
	})
}
