// internal/app/features/adminusers/users.go
package adminusers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	accountstore "github.com/matheusmeigre/docportal/internal/app/store/accounts"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/inputval"
	"github.com/matheusmeigre/docportal/internal/app/system/normalize"
	"github.com/matheusmeigre/docportal/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const passwordMinLen = 8

// userResponse is an account joined with its role assignment.
type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	RoleColor  string    `json:"role_color,omitempty"`
	AssignedBy *string   `json:"assigned_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ServeList handles GET /admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		h.ErrLog.Dependency(w, r, "list accounts", err)
		return
	}
	assignments, err := h.Roles.List(r.Context())
	if err != nil {
		h.ErrLog.Dependency(w, r, "list role assignments", err)
		return
	}

	byUser := make(map[primitive.ObjectID]models.RoleAssignment, len(assignments))
	for _, ra := range assignments {
		byUser[ra.UserID] = ra
	}

	out := make([]userResponse, 0, len(accounts))
	for _, a := range accounts {
		resp := userResponse{
			ID:        a.ID.Hex(),
			Email:     a.Email,
			CreatedAt: a.CreatedAt,
		}
		if ra, ok := byUser[a.ID]; ok {
			resp.Role = ra.Role
			resp.RoleColor = models.RoleBadgeColor(ra.Role)
			if ra.AssignedBy != nil {
				hex := ra.AssignedBy.Hex()
				resp.AssignedBy = &hex
			}
		}
		out = append(out, resp)
	}
	apierrors.JSON(w, http.StatusOK, out)
}

// createInput is the payload for POST /admin/users.
type createInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in *createInput) validate() *inputval.FieldError {
	in.Email = normalize.Email(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return &inputval.FieldError{Field: "email", Message: "Email inválido"}
	}
	if len(in.Password) < passwordMinLen {
		return &inputval.FieldError{Field: "password", Message: "Senha muito curta"}
	}
	if !models.IsValidRole(in.Role) {
		return &inputval.FieldError{Field: "role", Message: "Papel inválido"}
	}
	return nil
}

// HandleCreate handles POST /admin/users: a confirmed account plus a
// role assignment in one call.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var in createInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}
	if ferr := in.validate(); ferr != nil {
		apierrors.Validation(w, ferr)
		return
	}

	account, err := h.Accounts.Create(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, accountstore.ErrDuplicateEmail) {
			apierrors.Conflict(w, "Já existe um usuário com este email")
			return
		}
		h.ErrLog.Dependency(w, r, "create account", err)
		return
	}

	actor := actorOID(u)
	if _, err := h.Roles.Upsert(r.Context(), account.ID, in.Role, &actor); err != nil {
		h.ErrLog.Dependency(w, r, "assign role", err)
		return
	}

	h.Audit.AdminAction(r.Context(), r, audit.EventUserCreated, actor, &account.ID,
		map[string]string{"email": account.Email, "role": in.Role})

	apierrors.JSON(w, http.StatusCreated, userResponse{
		ID:        account.ID.Hex(),
		Email:     account.Email,
		Role:      in.Role,
		RoleColor: models.RoleBadgeColor(in.Role),
		CreatedAt: account.CreatedAt,
	})
}

// updateInput is the payload for PATCH /admin/users/{id}. All fields
// are optional; present fields are applied.
type updateInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// validate checks every present field. Nothing may be applied until
// the whole patch validates, so a 422 never hides a committed change.
func (in *updateInput) validate() *inputval.FieldError {
	if in.Email != nil {
		email := normalize.Email(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return &inputval.FieldError{Field: "email", Message: "Email inválido"}
		}
		in.Email = &email
	}
	if in.Password != nil && len(*in.Password) < passwordMinLen {
		return &inputval.FieldError{Field: "password", Message: "Senha muito curta"}
	}
	if in.Role != nil && !models.IsValidRole(*in.Role) {
		return &inputval.FieldError{Field: "role", Message: "Papel inválido"}
	}
	return nil
}

// HandleUpdate handles PATCH /admin/users/{id}, changing the role, the
// email, the password, or any combination.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w)
		return
	}
	if _, err := h.Accounts.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.NotFound(w)
			return
		}
		h.ErrLog.Dependency(w, r, "load account", err)
		return
	}

	var in updateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}
	if in.Email == nil && in.Password == nil && in.Role == nil {
		apierrors.BadRequest(w, "Nada para atualizar")
		return
	}
	if ferr := in.validate(); ferr != nil {
		apierrors.Validation(w, ferr)
		return
	}

	actor := actorOID(u)

	if in.Role != nil {
		if _, err := h.Roles.Upsert(r.Context(), id, *in.Role, &actor); err != nil {
			h.ErrLog.Dependency(w, r, "change role", err)
			return
		}
		h.Audit.AdminAction(r.Context(), r, audit.EventUserRoleChanged, actor, &id,
			map[string]string{"role": *in.Role})
	}

	if in.Email != nil {
		if err := h.Accounts.UpdateEmail(r.Context(), id, *in.Email); err != nil {
			if errors.Is(err, accountstore.ErrDuplicateEmail) {
				apierrors.Conflict(w, "Já existe um usuário com este email")
				return
			}
			h.ErrLog.Dependency(w, r, "change email", err)
			return
		}
		h.Audit.AdminAction(r.Context(), r, audit.EventUserEmailChanged, actor, &id,
			map[string]string{"email": *in.Email})
	}

	if in.Password != nil {
		if err := h.Accounts.UpdatePassword(r.Context(), id, *in.Password); err != nil {
			h.ErrLog.Dependency(w, r, "change password", err)
			return
		}
		// A reset password invalidates every outstanding token.
		if err := h.Accounts.RevokeTokensFor(r.Context(), id); err != nil {
			h.ErrLog.Dependency(w, r, "revoke tokens", err)
			return
		}
		h.Audit.AdminAction(r.Context(), r, audit.EventUserPasswordChanged, actor, &id, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

func actorOID(u *auth.SessionUser) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
