// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// devJWTSecret is the default secret. It is rejected outside dev.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for fishnet.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: FISHNET_MONGO_URI, FISHNET_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "fishnet", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "Initial MongoDB connect and ping timeout"},

	// Tokens and passwords
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HMAC secret for bearer tokens (must be strong in production)"},
	{Name: "jwt_ttl", Default: "720h", Desc: "Bearer token lifetime (default: 30 days)"},
	{Name: "bcrypt_cost", Default: bcrypt.DefaultCost, Desc: "bcrypt cost factor (4-31)"},

	// HTTP surface
	{Name: "api_prefix", Default: "/api", Desc: "Path prefix for the JSON API ('' serves it at the root)"},
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated CORS origins ('*' allows any)"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Trust X-Forwarded-For / X-Real-IP (enable only behind a proxy that sets them)"},

	// Login throttling
	{Name: "login_ip_limit", Default: 10, Desc: "Login attempts allowed per client IP per login_ip_window (0 disables)"},
	{Name: "login_ip_window", Default: "1m", Desc: "Window for login_ip_limit"},
	{Name: "login_email_limit", Default: 5, Desc: "Login attempts allowed per email per login_email_window (0 disables)"},
	{Name: "login_email_window", Default: "5m", Desc: "Window for login_email_limit"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_tokens", Default: "all", Desc: "Token event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_catches", Default: "log", Desc: "Catch event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Database operation budgets
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and multi-step writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for aggregations over every catch"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of an existing user to promote to admin on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FISHNET_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FISHNET", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		JWTSecret:  appValues.String("jwt_secret"),
		JWTTTL:     appValues.Duration("jwt_ttl", auth.DefaultTokenTTL),
		BcryptCost: appValues.Int("bcrypt_cost"),

		APIPrefix:          normalizePrefix(appValues.String("api_prefix")),
		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		TrustProxyHeaders:  appValues.Bool("trust_proxy_headers"),

		LoginIPLimit:     appValues.Int("login_ip_limit"),
		LoginIPWindow:    appValues.Duration("login_ip_window", time.Minute),
		LoginEmailLimit:  appValues.Int("login_email_limit"),
		LoginEmailWindow: appValues.Duration("login_email_window", 5*time.Minute),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogTokens:  appValues.String("audit_log_tokens"),
		AuditLogCatches: appValues.String("audit_log_catches"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must be set")
	}
	if appCfg.JWTSecret == devJWTSecret && coreCfg != nil && coreCfg.Env == "prod" {
		return fmt.Errorf("jwt_secret must be changed from the development default in prod")
	}
	if appCfg.JWTTTL <= 0 {
		return fmt.Errorf("jwt_ttl must be positive, got %s", appCfg.JWTTTL)
	}

	if appCfg.BcryptCost < bcrypt.MinCost || appCfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, appCfg.BcryptCost)
	}

	if appCfg.LoginIPLimit < 0 || appCfg.LoginEmailLimit < 0 {
		return fmt.Errorf("login limits must not be negative")
	}
	if (appCfg.LoginIPLimit > 0 && appCfg.LoginIPWindow <= 0) ||
		(appCfg.LoginEmailLimit > 0 && appCfg.LoginEmailWindow <= 0) {
		return fmt.Errorf("login limit windows must be positive")
	}

	for _, mode := range []string{appCfg.AuditLogAuth, appCfg.AuditLogTokens, appCfg.AuditLogCatches} {
		switch mode {
		case "all", "db", "log", "off", "":
		default:
			return fmt.Errorf("audit log mode %q must be one of all, db, log, off", mode)
		}
	}

	return nil
}

// normalizePrefix turns "api", "/api/", and "/api" into "/api". Blank and
// "/" both mean the root.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
