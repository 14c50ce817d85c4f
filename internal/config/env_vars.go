package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvVars is the environment-backed implementation of Config.
// Values come from the process environment, optionally seeded from a .env file.
type EnvVars struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	AppName     string        `env:"APP_NAME" envDefault:"StaffDesk"`
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
	AIBaseURL   string        `env:"AI_BASE_URL"`
	Environment string        `env:"ENV" envDefault:"DEV"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

var _ Config = &EnvVars{}

func loadEnvVars() (*EnvVars, error) {
	_ = godotenv.Load() // load .env if present

	var vars EnvVars
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &vars, nil
}

func (e *EnvVars) GetPort() string {
	port := e.Port
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e *EnvVars) GetAppName() string {
	return e.AppName
}

// GetAPIBaseURL returns the base URL of the HR backend, without a trailing slash.
func (e *EnvVars) GetAPIBaseURL() string {
	return strings.TrimSuffix(e.APIBaseURL, "/")
}

func (e *EnvVars) GetAIBaseURL() string {
	return strings.TrimSuffix(e.AIBaseURL, "/")
}

func (e *EnvVars) GetEnv() string {
	return e.Environment
}

func (e *EnvVars) GetSessionTTL() time.Duration {
	return e.SessionTTL
}
