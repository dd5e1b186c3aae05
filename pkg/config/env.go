package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "LEADDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "LEADDESK_APP_ENV"
	EnvPort   = "LEADDESK_APP_PORT"

	EnvDBDSN    = "LEADDESK_DB_DSN"
	EnvDBDriver = "LEADDESK_DB_DRIVER"
	EnvDBHost   = "LEADDESK_DB_HOST"
	EnvDBUser   = "LEADDESK_DB_USER"
	EnvDBName   = "LEADDESK_DB_NAME"

	EnvRedisURL = "LEADDESK_REDIS_URL"

	EnvJWTSecret  = "LEADDESK_JWT_SECRET"
	EnvJWTIssuer  = "LEADDESK_JWT_ISSUER"
	EnvJWTExpMins = "LEADDESK_JWT_EXPIRATION_MINUTES"

	EnvCORSAllowedOrigins = "LEADDESK_CORS_ALLOWED_ORIGINS"
	EnvUploadDir          = "LEADDESK_UPLOAD_DIR"
	EnvMaxUploadMB        = "LEADDESK_MAX_UPLOAD_MB"

	EnvAdminEmail    = "LEADDESK_ADMIN_EMAIL"
	EnvAdminName     = "LEADDESK_ADMIN_NAME"
	EnvAdminMobile   = "LEADDESK_ADMIN_MOBILE"
	EnvAdminPassword = "LEADDESK_ADMIN_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
