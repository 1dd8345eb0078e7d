// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devSessionKey is the default signing key. ValidateConfig refuses it in prod.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for ProgramHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PROGRAMHUB_MONGO_URI, PROGRAMHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "programhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "programhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local', 's3' or 'memory'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3 configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "programhub/", Desc: "S3 key prefix"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "Custom S3 endpoint (MinIO and other S3-compatible services)"},
	{Name: "storage_s3_path_style", Default: false, Desc: "Use path-style S3 addressing"},
	{Name: "storage_s3_access_key_id", Default: "", Desc: "Static S3 access key (empty uses the AWS credential chain)"},
	{Name: "storage_s3_secret_access_key", Default: "", Desc: "Static S3 secret key"},
	{Name: "storage_s3_url_expiry", Default: "15m", Desc: "Lifetime of presigned download URLs"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Record and link event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Linking
	{Name: "link_transactions", Default: true, Desc: "Use MongoDB transactions for program/cohort linking when available"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL, used for the OAuth callback"},

	// Admin bootstrap
	{Name: "bootstrap_admin_email", Default: "", Desc: "Email of an admin user to create on startup if missing"},
	{Name: "bootstrap_admin_password", Default: "", Desc: "Password for the bootstrap admin"},

	// Timeouts
	{Name: "timeout_ping", Default: timeouts.DefaultPing.String(), Desc: "Health check deadline"},
	{Name: "timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Single-document operation deadline"},
	{Name: "timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "List and dashboard deadline"},
	{Name: "timeout_long", Default: timeouts.DefaultLong.String(), Desc: "Link operation deadline"},
	{Name: "timeout_upload", Default: timeouts.DefaultUpload.String(), Desc: "CV upload deadline"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in order of precedence, flags,
// environment variables (WAFFLE_* for core, PROGRAMHUB_* for the app),
// config files and the defaults above.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PROGRAMHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		// File storage
		StorageType:      strings.ToLower(appValues.String("storage_type")),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3Endpoint:  appValues.String("storage_s3_endpoint"),
		StorageS3PathStyle: appValues.Bool("storage_s3_path_style"),
		StorageS3URLExpiry: appValues.Duration("storage_s3_url_expiry", 15*time.Minute),

		StorageS3AccessKeyID:     appValues.String("storage_s3_access_key_id"),
		StorageS3SecretAccessKey: appValues.String("storage_s3_secret_access_key"),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		LinkTransactions: appValues.Bool("link_transactions"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		BaseURL:            appValues.String("base_url"),

		BootstrapAdminEmail:    appValues.String("bootstrap_admin_email"),
		BootstrapAdminPassword: appValues.String("bootstrap_admin_password"),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		TimeoutUpload: appValues.Duration("timeout_upload", timeouts.DefaultUpload),
	}

	// Deadlines are process-wide; ConnectDB already relies on them.
	timeouts.Configure(appCfg.timeouts())

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems are caught here, before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if !validStorageType(appCfg.StorageType) {
		return fmt.Errorf("storage_type must be 'local', 's3' or 'memory', got %q", appCfg.StorageType)
	}
	if appCfg.StorageType == StorageS3 {
		if appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_type 's3' requires storage_s3_bucket")
		}
		if appCfg.StorageS3Region == "" {
			return fmt.Errorf("storage_type 's3' requires storage_s3_region")
		}
		if (appCfg.StorageS3AccessKeyID == "") != (appCfg.StorageS3SecretAccessKey == "") {
			return fmt.Errorf("storage_s3_access_key_id and storage_s3_secret_access_key must be set together")
		}
	}

	if !auditlog.ValidSetting(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth must be all, db, log or off; got %q", appCfg.AuditLogAuth)
	}
	if !auditlog.ValidSetting(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_admin must be all, db, log or off; got %q", appCfg.AuditLogAdmin)
	}

	if appCfg.BootstrapAdminEmail != "" && len(appCfg.BootstrapAdminPassword) < 8 {
		return fmt.Errorf("bootstrap_admin_password must be at least 8 characters when bootstrap_admin_email is set")
	}
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be set to a random value of at least 32 characters in prod")
		}
	}

	return nil
}

func (c AppConfig) timeouts() timeouts.Config {
	return timeouts.Config{
		Ping:   c.TimeoutPing,
		Short:  c.TimeoutShort,
		Medium: c.TimeoutMedium,
		Long:   c.TimeoutLong,
		Upload: c.TimeoutUpload,
	}
}
