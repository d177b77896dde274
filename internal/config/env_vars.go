package config

import (
	"os"
	"strings"
	"time"
)

const envPrefix = "CONNECTEXE"

type EnvVars struct {
	s Settings
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.s.Env)
}

func (e EnvVars) GetAppName() string {
	return e.s.AppName
}

// GetAPIBaseURL returns the REST backend root without a trailing slash
// (e.g. "http://localhost:8080").
func (e EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(e.s.APIBaseURL, "/")
}

func (e EnvVars) GetDataFolder() string {
	return e.s.DataFolder
}

func (e EnvVars) GetHTTPTimeout() time.Duration {
	return e.s.HTTPTimeout
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
