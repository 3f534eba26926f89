// internal/app/features/categories/handler.go
package categories

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	categorystore "github.com/matheusmeigre/docportal/internal/app/store/categories"
	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auditlog"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/inputval"
	"github.com/matheusmeigre/docportal/internal/app/system/sanitize"
	"github.com/matheusmeigre/docportal/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the category management endpoints.
type Handler struct {
	Cats   *categorystore.Store
	Docs   *documentstore.Store
	Audit  *auditlog.Logger
	ErrLog *apierrors.Logger
	Log    *zap.Logger
}

// NewHandler constructs a Handler bound to the given Mongo database
// and logger.
func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Cats:   categorystore.New(db),
		Docs:   documentstore.New(db),
		Audit:  auditLog,
		ErrLog: apierrors.NewLogger(logger),
		Log:    logger,
	}
}

// categoryInput is the client payload for create and update.
type categoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
	Icon        string  `json:"icon"`
}

func (in *categoryInput) validate() *inputval.FieldError {
	in.Name = sanitize.Text(in.Name)
	in.Description = sanitize.Text(in.Description)
	if in.Name == "" {
		return &inputval.FieldError{Field: "name", Message: "Nome obrigatório"}
	}
	if in.ParentID != nil && *in.ParentID != "" {
		if _, err := primitive.ObjectIDFromHex(*in.ParentID); err != nil {
			return &inputval.FieldError{Field: "parent_id", Message: "Categoria pai inválida"}
		}
	}
	return nil
}

func (in *categoryInput) parentOID() *primitive.ObjectID {
	if in.ParentID == nil || *in.ParentID == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(*in.ParentID)
	if err != nil {
		return nil
	}
	return &oid
}

// ServeList handles GET /categories.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Cats.List(r.Context())
	if err != nil {
		h.ErrLog.Dependency(w, r, "list categories", err)
		return
	}
	apierrors.JSON(w, http.StatusOK, cats)
}

// HandleCreate handles POST /categories.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}
	if ferr := in.validate(); ferr != nil {
		apierrors.Validation(w, ferr)
		return
	}

	created, err := h.Cats.Create(r.Context(), models.Category{
		Name:        in.Name,
		Description: in.Description,
		ParentID:    in.parentOID(),
		Icon:        in.Icon,
	})
	if err != nil {
		if errors.Is(err, categorystore.ErrDuplicateName) {
			apierrors.Conflict(w, "Já existe uma categoria com este nome")
			return
		}
		h.ErrLog.Dependency(w, r, "create category", err)
		return
	}

	h.auditAction(r, audit.EventCategoryCreated, u, created.ID, created.Name)
	apierrors.JSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /categories/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w)
		return
	}

	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.BadRequest(w, "Corpo da requisição inválido")
		return
	}
	if ferr := in.validate(); ferr != nil {
		apierrors.Validation(w, ferr)
		return
	}

	updated, err := h.Cats.UpdateCategory(r.Context(), id, categorystore.Update{
		Name:        in.Name,
		Description: in.Description,
		ParentID:    in.parentOID(),
		Icon:        in.Icon,
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			apierrors.NotFound(w)
		case errors.Is(err, categorystore.ErrDuplicateName):
			apierrors.Conflict(w, "Já existe uma categoria com este nome")
		default:
			h.ErrLog.Dependency(w, r, "update category", err)
		}
		return
	}

	h.auditAction(r, audit.EventCategoryUpdated, u, updated.ID, updated.Name)
	apierrors.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /categories/{id}. Documents in the
// category are detached, not deleted.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w)
		return
	}

	n, err := h.Cats.Delete(r.Context(), id)
	if err != nil {
		h.ErrLog.Dependency(w, r, "delete category", err)
		return
	}
	if n == 0 {
		apierrors.NotFound(w)
		return
	}
	if err := h.Docs.ClearCategory(r.Context(), id); err != nil {
		h.ErrLog.Dependency(w, r, "detach documents from category", err)
		return
	}

	h.auditAction(r, audit.EventCategoryDeleted, u, id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) auditAction(r *http.Request, eventType string, u *auth.SessionUser, catID primitive.ObjectID, name string) {
	actor, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		actor = primitive.NilObjectID
	}
	details := map[string]string{"category_id": catID.Hex()}
	if name != "" {
		details["name"] = name
	}
	h.Audit.AdminAction(r.Context(), r, eventType, actor, nil, details)
}
