package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Drivers de almacenamiento soportados para la sesión persistida.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config centraliza la configuración del dashboard.
type Config struct {
	HTTPPort      string        `env:"HTTP_PORT" envDefault:"8080"`
	APIBaseURL    string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	APITimeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	LogoutTimeout time.Duration `env:"LOGOUT_TIMEOUT" envDefault:"5s"`

	StorageDriver    string `env:"STORAGE_DRIVER" envDefault:"file"`
	StoragePath      string `env:"STORAGE_PATH" envDefault:".leadsfynder/session.json"`
	StorageNamespace string `env:"STORAGE_NAMESPACE" envDefault:"leadsfynder:"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	DatabaseURL   string `env:"DATABASE_URL"`

	SessionExpiryCheck bool `env:"SESSION_EXPIRY_CHECK" envDefault:"true"`
	LogDevelopment     bool `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StorageFile:
		if c.StoragePath == "" {
			return fmt.Errorf("STORAGE_PATH is required for the file driver")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.APITimeout <= 0 || c.LogoutTimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT and LOGOUT_TIMEOUT must be positive")
	}
	return nil
}
