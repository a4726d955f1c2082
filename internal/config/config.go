package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig

	// SecretKey signs sessions. Carried across the service for parity with
	// the rest of the platform; no handler in this service consumes it yet.
	SecretKey string `envconfig:"SECRET_KEY" default:"sup3r-s3cr3t"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"promotions_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`

	// URI, when set, is used verbatim instead of the discrete fields above.
	// Platform service bindings (VCAP_SERVICES) also land here.
	URI string `envconfig:"DATABASE_URI"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load parses environment variables into the Config struct. When the process
// runs under a platform that injects service-binding metadata
// (VCAP_SERVICES), the database credential URL from the binding overrides
// every other database setting.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if raw := os.Getenv("VCAP_SERVICES"); raw != "" {
		uri, err := bindingDatabaseURI([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("parse VCAP_SERVICES: %w", err)
		}
		cfg.DB.URI = uri
	}
	return &cfg, nil
}

// bindingDatabaseURI extracts the database credential URL from service
// binding JSON. Bindings hand out postgres:// URLs; the scheme prefix is
// normalized to postgresql:// before use.
func bindingDatabaseURI(raw []byte) (string, error) {
	var services struct {
		UserProvided []struct {
			Credentials struct {
				URL string `json:"url"`
			} `json:"credentials"`
		} `json:"user-provided"`
	}
	if err := json.Unmarshal(raw, &services); err != nil {
		return "", err
	}
	if len(services.UserProvided) == 0 || services.UserProvided[0].Credentials.URL == "" {
		return "", errors.New("no database credentials in service binding")
	}
	uri := services.UserProvided[0].Credentials.URL
	if strings.HasPrefix(uri, "postgres://") {
		uri = "postgresql://" + strings.TrimPrefix(uri, "postgres://")
	}
	return uri, nil
}
