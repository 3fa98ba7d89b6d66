package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del cliente.
type Config struct {
	APIBaseURL         string   `env:"API_BASE_URL" envDefault:"http://localhost:8000/api/"`
	HTTPPort           string   `env:"HTTP_PORT" envDefault:"8090"`
	HTTPTimeoutSeconds int      `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPGetRetries     int      `env:"HTTP_GET_RETRIES" envDefault:"1"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	SessionBackend             string `env:"SESSION_BACKEND" envDefault:"file"`
	SessionFile                string `env:"SESSION_FILE" envDefault:".coursecompare/session.json"`
	SessionKey                 string `env:"SESSION_KEY"`
	SessionProfile             string `env:"SESSION_PROFILE" envDefault:"default"`
	SessionClearOnUnauthorized bool   `env:"SESSION_CLEAR_ON_UNAUTHORIZED" envDefault:"true"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	DatabaseURL   string `env:"DATABASE_URL"`

	LoginAttemptsMax           int `env:"LOGIN_ATTEMPTS_MAX" envDefault:"10"`
	LoginAttemptsWindowMinutes int `env:"LOGIN_ATTEMPTS_WINDOW_MINUTES" envDefault:"10"`

	HistoryFile string `env:"HISTORY_FILE" envDefault:".coursecompare/history"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

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
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	switch c.SessionBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("SESSION_BACKEND=redis requires REDIS_ADDR")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("SESSION_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionKey != "" {
		if _, err := c.SealKey(); err != nil {
			return err
		}
	}
	if c.HTTPGetRetries < 0 {
		c.HTTPGetRetries = 0
	}
	return nil
}

// HTTPTimeout devuelve el timeout por request hacia el backend.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// LoginAttemptsWindow devuelve la ventana del límite de logins del servidor web.
func (c *Config) LoginAttemptsWindow() time.Duration {
	if c.LoginAttemptsWindowMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.LoginAttemptsWindowMinutes) * time.Minute
}

// SealKey decodifica SESSION_KEY (64 caracteres hex). Devuelve nil si no hay clave.
func (c *Config) SealKey() (*[32]byte, error) {
	if c.SessionKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(strings.TrimSpace(c.SessionKey))
	if err != nil {
		return nil, fmt.Errorf("decode SESSION_KEY: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("SESSION_KEY must be 32 bytes, got %d", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}
