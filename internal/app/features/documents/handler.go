// internal/app/features/documents/handler.go
package documents

import (
	"errors"
	"net/http"

	categorystore "github.com/matheusmeigre/docportal/internal/app/store/categories"
	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	historystore "github.com/matheusmeigre/docportal/internal/app/store/history"
	rolestore "github.com/matheusmeigre/docportal/internal/app/store/roles"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auditlog"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the document workflow endpoints: listing, CRUD, the
// status transitions and per-document history.
//
// It is constructed once at startup in bootstrap, using the shared
// Mongo database handle and logger.
type Handler struct {
	Docs    *documentstore.Store
	History *historystore.Store
	Roles   *rolestore.Store
	Cats    *categorystore.Store
	Audit   *auditlog.Logger
	ErrLog  *apierrors.Logger
	Log     *zap.Logger
}

// NewHandler constructs a Handler bound to the given Mongo database
// and logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Docs:    documentstore.New(db),
		History: historystore.New(db),
		Roles:   rolestore.New(db),
		Cats:    categorystore.New(db),
		Audit:   audit,
		ErrLog:  apierrors.NewLogger(logger),
		Log:     logger,
	}
}

// loadDocument resolves the {id} URL parameter and fetches the
// document, writing the error response itself on failure.
func (h *Handler) loadDocument(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w)
		return nil, false
	}

	doc, err := h.Docs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.NotFound(w)
			return nil, false
		}
		h.ErrLog.Dependency(w, r, "load document", err)
		return nil, false
	}
	return doc, true
}

func isAuthor(u *auth.SessionUser, doc *models.Document) bool {
	return doc.AuthorID.Hex() == u.ID
}

// actorOID converts the context user's hex ID back to an ObjectID.
// The middleware only issues well-formed IDs, so a parse failure means
// a test injected a synthetic user; fall back to the zero ID.
func actorOID(u *auth.SessionUser) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// snapshot appends a history entry capturing the document as stored
// after a mutation. History failures are logged, not surfaced: the
// mutation already committed.
func (h *Handler) snapshot(r *http.Request, doc *models.Document, actor primitive.ObjectID, changeType string) {
	_, err := h.History.Append(r.Context(), models.HistoryEntry{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Content:    doc.Content,
		Status:     doc.Status,
		Version:    doc.Version,
		ChangedBy:  actor,
		ChangeType: changeType,
	})
	if err != nil {
		h.Log.Error("failed to append document history",
			zap.String("document_id", doc.ID.Hex()),
			zap.String("change_type", changeType),
			zap.Error(err))
	}
}
