package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Session store backends
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the server settings read from the environment
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	RedisURI     string `env:"REDIS_URI" envDefault:"redis:6379"`
	SessionStore string `env:"SESSION_STORE" envDefault:"redis"`

	// Sliding is refreshed on every access, Absolute caps the lifetime from creation
	SessionSlidingTTL  time.Duration `env:"SESSION_SLIDING_TTL" envDefault:"2m"`
	SessionAbsoluteTTL time.Duration `env:"SESSION_ABSOLUTE_TTL" envDefault:"30m"`

	// Empty means numbers come from crypto/rand
	RandomServiceURL     string        `env:"RANDOM_SERVICE_URL"`
	RandomServiceTimeout time.Duration `env:"RANDOM_SERVICE_TIMEOUT" envDefault:"5s"`

	CORS CORSConfig

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// CORSConfig controls the Access-Control-Allow-* response headers
type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" envDefault:"GET, POST, OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type"`
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RedisAddr returns REDIS_URI without the redis:// prefix
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func (c *Config) validate() error {
	switch c.SessionStore {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("invalid SESSION_STORE %q: want %q or %q", c.SessionStore, StoreRedis, StoreMemory)
	}
	if c.SessionSlidingTTL <= 0 {
		return fmt.Errorf("SESSION_SLIDING_TTL must be positive, got %s", c.SessionSlidingTTL)
	}
	if c.SessionAbsoluteTTL < c.SessionSlidingTTL {
		return fmt.Errorf("SESSION_ABSOLUTE_TTL (%s) must not be shorter than SESSION_SLIDING_TTL (%s)",
			c.SessionAbsoluteTTL, c.SessionSlidingTTL)
	}
	if c.RandomServiceTimeout <= 0 {
		return fmt.Errorf("RANDOM_SERVICE_TIMEOUT must be positive, got %s", c.RandomServiceTimeout)
	}
	return nil
}
