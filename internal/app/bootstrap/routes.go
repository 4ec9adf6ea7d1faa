// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/fishnet/internal/app/accounts"
	"github.com/dalemusser/fishnet/internal/app/catchlog"
	accountfeature "github.com/dalemusser/fishnet/internal/app/features/account"
	auditfeature "github.com/dalemusser/fishnet/internal/app/features/auditlog"
	catchesfeature "github.com/dalemusser/fishnet/internal/app/features/catches"
	errorsfeature "github.com/dalemusser/fishnet/internal/app/features/errors"
	healthfeature "github.com/dalemusser/fishnet/internal/app/features/health"
	"github.com/dalemusser/fishnet/internal/app/store/audit"
	"github.com/dalemusser/fishnet/internal/app/system/auditlog"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Services are built once here over the
// shared Mongo database and handed to the feature routers; nothing is kept
// in package state.
//
// Layout:
//
//	/health                        liveness + DB ping
//	{api_prefix}/auth/...          account routes
//	{api_prefix}/catches/...       catch ledger
//	{api_prefix}/stats             public aggregate
//	{api_prefix}/admin/audit       audit events (admin)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.FishnetMongoDatabase

	hasher := auth.NewHasher(appCfg.BcryptCost)
	codec := auth.NewTokenCodec(appCfg.JWTSecret, appCfg.JWTTTL)
	dir := accounts.NewDirectory(db, hasher, codec, logger)
	ledger := catchlog.NewLedger(db, dir, logger)

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Tokens:  appCfg.AuditLogTokens,
		Catches: appCfg.AuditLogCatches,
	})

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	resolver := auth.NewResolver(codec, dir.Users(), errLog.Write, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if appCfg.TrustProxyHeaders {
		// Rewrites RemoteAddr, which the login limiter keys on.
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.FishnetMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	accountHandler := accountfeature.NewHandler(dir, errLog, auditLog, loginLimiter(appCfg), logger)
	catchesHandler := catchesfeature.NewHandler(ledger, errLog, auditLog, logger)
	auditHandler := auditfeature.NewHandler(auditStore, errLog, logger)

	api := func(ar chi.Router) {
		ar.Mount("/auth", accountfeature.Routes(accountHandler, resolver))
		ar.Mount("/catches", catchesfeature.Routes(catchesHandler, resolver))
		ar.Mount("/stats", catchesfeature.StatsRoutes(catchesHandler))
		ar.Mount("/admin/audit", auditfeature.Routes(auditHandler, resolver))
	}
	if appCfg.APIPrefix == "" {
		api(r)
	} else {
		r.Route(appCfg.APIPrefix, api)
	}

	logger.Info("routes mounted", zap.String("api_prefix", appCfg.APIPrefix))
	return r, nil
}

// loginLimiter returns nil when either budget is disabled.
func loginLimiter(appCfg AppConfig) *ratelimit.LoginLimiter {
	if appCfg.LoginIPLimit <= 0 || appCfg.LoginEmailLimit <= 0 {
		return nil
	}
	return ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginIPWindow, appCfg.LoginEmailLimit, appCfg.LoginEmailWindow)
}
