// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings such as ports, TLS, logging and CORS; everything
// specific to ProgramHub lives here and is passed to each lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: programhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// File storage configuration
	StorageType      string // Storage backend: "local", "s3" or "memory"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string        // Key prefix (e.g., "programhub/")
	StorageS3Endpoint  string        // Optional endpoint for S3-compatible services
	StorageS3PathStyle bool          // Path-style addressing, needed by most S3-compatible services
	StorageS3URLExpiry time.Duration // Lifetime of presigned CV links

	// Static S3 keys. When empty the default AWS credential chain is used.
	StorageS3AccessKeyID     string
	StorageS3SecretAccessKey string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// LinkTransactions runs link operations in MongoDB transactions when the
	// deployment supports them; otherwise the compensating saga is used.
	LinkTransactions bool

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // e.g., "https://programhub.example.com"; used for the OAuth callback

	// Bootstrap admin, created on startup when missing.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	// Operation deadlines (see internal/app/system/timeouts)
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutUpload time.Duration
}
