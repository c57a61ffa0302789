package constants

// Application identity, reported by the health endpoints and stamped on
// every log entry.
const (
	AppName    = "auth-service"
	AppVersion = "1.0.0"
)

// Environments recognized in APP_ENV. Anything but EnvProduction gets
// debug-level, human-readable console logging.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

const (
	DefaultPort        = "8000"
	DefaultEnvironment = EnvDevelopment
)

// BlacklistKeyPrefix namespaces revoked-token keys in redis.
const BlacklistKeyPrefix = "blacklist:"
