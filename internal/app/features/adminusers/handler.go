// internal/app/features/adminusers/handler.go
package adminusers

import (
	accountstore "github.com/matheusmeigre/docportal/internal/app/store/accounts"
	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	historystore "github.com/matheusmeigre/docportal/internal/app/store/history"
	rolestore "github.com/matheusmeigre/docportal/internal/app/store/roles"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin user management endpoints: listing accounts
// with their roles, creating users, changing role or email, and the
// two-phase deletion that scrubs a user's references before removing
// the account.
type Handler struct {
	Client   *mongo.Client
	Accounts *accountstore.Store
	Roles    *rolestore.Store
	Docs     *documentstore.Store
	History  *historystore.Store
	Audit    *auditlog.Logger
	ErrLog   *apierrors.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Handler. The Mongo client (not just the
// database) is needed so deletion cleanup can run transactionally
// where the deployment supports it.
func NewHandler(db *mongo.Database, accounts *accountstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   db.Client(),
		Accounts: accounts,
		Roles:    rolestore.New(db),
		Docs:     documentstore.New(db),
		History:  historystore.New(db),
		Audit:    auditLog,
		ErrLog:   apierrors.NewLogger(logger),
		Log:      logger,
	}
}
