package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetAPIBaseURL() string
	GetAIBaseURL() string
	GetEnv() string
}

type SessionConfig interface {
	GetSessionTTL() time.Duration
}

func New() (Config, error) {
	return loadEnvVars()
}
