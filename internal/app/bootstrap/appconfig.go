// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, and logging level. Everything the logbook API itself needs
// lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Maximum connections in the driver pool
	MongoMinPoolSize    uint64        // Connections kept warm in the driver pool
	MongoConnectTimeout time.Duration // Budget for the initial connect + ping

	// Bearer tokens and passwords
	JWTSecret  string        // HMAC secret for signing session tokens
	JWTTTL     time.Duration // Token lifetime (default 30 days)
	BcryptCost int           // bcrypt work factor

	// HTTP surface
	APIPrefix          string   // Mount point for /auth, /catches, /stats (default /api)
	CORSAllowedOrigins []string // Origins allowed by CORS; "*" allows any
	TrustProxyHeaders  bool     // Take the client IP from X-Forwarded-For / X-Real-IP

	// Login throttling; a zero limit disables it
	LoginIPLimit     int           // attempts per client IP per LoginIPWindow
	LoginIPWindow    time.Duration
	LoginEmailLimit  int           // attempts per email per LoginEmailWindow
	LoginEmailWindow time.Duration

	// Audit logging ("all", "db", "log", or "off")
	AuditLogAuth    string
	AuditLogTokens  string
	AuditLogCatches string

	// Context budgets for database work
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Email of an existing account promoted to admin at startup (optional)
	AdminEmail string
}
