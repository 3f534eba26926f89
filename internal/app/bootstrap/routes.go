// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	adminusersfeature "github.com/matheusmeigre/docportal/internal/app/features/adminusers"
	auditlogfeature "github.com/matheusmeigre/docportal/internal/app/features/auditlog"
	categoriesfeature "github.com/matheusmeigre/docportal/internal/app/features/categories"
	documentsfeature "github.com/matheusmeigre/docportal/internal/app/features/documents"
	healthfeature "github.com/matheusmeigre/docportal/internal/app/features/health"
	loginfeature "github.com/matheusmeigre/docportal/internal/app/features/login"
	logoutfeature "github.com/matheusmeigre/docportal/internal/app/features/logout"
	accountstore "github.com/matheusmeigre/docportal/internal/app/store/accounts"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	rolestore "github.com/matheusmeigre/docportal/internal/app/store/roles"
	"github.com/matheusmeigre/docportal/internal/app/system/auditlog"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	accounts := accountstore.New(db, appCfg.TokenTTL)
	roles := rolestore.New(db)

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, accounts, roles, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:     appCfg.AuditLogAuth,
		Admin:    appCfg.AuditLogAdmin,
		Document: appCfg.AuditLogDocument,
	})

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token or cookie session
	// into a SessionUser, available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, accounts, sessionMgr, auditLog, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler, sessionMgr))

	logoutHandler := logoutfeature.NewHandler(accounts, sessionMgr, auditLog, logger)
	r.Mount("/auth/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Document workflow
	documentsHandler := documentsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	// Category management
	categoriesHandler := categoriesfeature.NewHandler(db, auditLog, logger)
	r.Mount("/categories", categoriesfeature.Routes(categoriesHandler, sessionMgr))

	// User administration
	adminUsersHandler := adminusersfeature.NewHandler(db, accounts, auditLog, logger)
	r.Mount("/admin/users", adminusersfeature.Routes(adminUsersHandler, sessionMgr))

	// Audit trail
	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/admin/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
