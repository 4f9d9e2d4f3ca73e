package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CognitoConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetPortalOrigin() string
	GetDataFolder() string
	GetAPIBaseURL() string
	GetLogLevel() string
}

type CognitoConfig interface {
	GetCognitoDomain() string
	GetClientID() string
	GetIdentityPoolID() string
	GetUserPoolID() string
	GetRegion() string
}

type SessionConfig interface {
	GetSessionTimeout() time.Duration
	GetActivityThrottle() string
	GetActivityWindow() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cognito
	Session
	Cors
}

// New loads an optional .env file from the working directory and returns
// a Config backed by environment variables.
func New() Config {
	_ = godotenv.Load(".env")
	return mainConfig{}
}
