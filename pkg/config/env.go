package config

const (
	EnvPrefix = "CANTEEN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	RealtimeTransportMemory = "memory"
	RealtimeTransportRedis  = "redis"
	RealtimeTransportPubSub = "pubsub"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

const (
	EnvAppEnv    = "CANTEEN_APP_ENV"
	EnvPort      = "CANTEEN_APP_PORT"
	EnvLogLevel  = "CANTEEN_LOG_LEVEL"
	EnvLogFormat = "CANTEEN_LOG_FORMAT"
	EnvTimezone  = "CANTEEN_TIMEZONE"

	EnvDBDSN  = "CANTEEN_DB_DSN"
	EnvDBHost = "CANTEEN_DB_HOST"
	EnvDBUser = "CANTEEN_DB_USER"
	EnvDBName = "CANTEEN_DB_NAME"

	EnvRedisURL = "CANTEEN_REDIS_URL"

	EnvJWTSecret  = "CANTEEN_JWT_SECRET"
	EnvJWTIssuer  = "CANTEEN_JWT_ISSUER"
	EnvJWTExpMins = "CANTEEN_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite = "CANTEEN_USE_SQLITE"

	EnvRealtimeTransport = "CANTEEN_REALTIME_TRANSPORT"

	EnvGCPProjectID       = "CANTEEN_GCP_PROJECT_ID"
	EnvPubSubChangesTopic = "CANTEEN_PUBSUB_CHANGES_TOPIC"
	EnvPubSubChangesSub   = "CANTEEN_PUBSUB_CHANGES_SUBSCRIPTION"

	EnvInventoryLowFactor = "CANTEEN_INVENTORY_LOW_FACTOR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
