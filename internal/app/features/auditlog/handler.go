// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler exposes the audit trail to administrators.
type Handler struct {
	Audit  *audit.Store
	ErrLog *apierrors.Logger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Audit:  audit.New(db),
		ErrLog: apierrors.NewLogger(logger),
		Log:    logger,
	}
}
