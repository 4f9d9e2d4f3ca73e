package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	portEnvVar         = "PORT"
	appNameVar         = "APP_NAME"
	folderEnvVar       = "DATA_FOLDER"
	portalOriginEnvVar = "PORTAL_ORIGIN"
	apiBaseURLEnvVar   = "API_BASE_URL"
	logLevelEnvVar     = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Portal Session")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetEnv() string {
	return GetEnv("ENV", "DEV")
}

// GetPortalOrigin returns the origin the portal is served from (e.g., "https://portal.example.com").
// Every return URL handed to the identity provider is built from it.
func (EnvVars) GetPortalOrigin() string {
	return strings.TrimSuffix(GetEnv(portalOriginEnvVar, "http://localhost:3000"), "/")
}

// GetAPIBaseURL returns the base URL of the IAM protected backend API.
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimSuffix(GetEnv(apiBaseURLEnvVar, ""), "/")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the integer value of envVar, or defaultValue when it is unset or not a number.
func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}
