package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envDevelopment = "development"

// Config is loaded once at boot and treated as immutable afterwards.
type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"NODE_ENV,  default=production"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig
}

type UpstreamConfig struct {
	// BaseURL is the backend REST API root, e.g. https://api.example.com.
	BaseURL string        `env:"API_URL, required"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT, default=30s"`
}

type SessionConfig struct {
	Secret     string `env:"NEXTAUTH_SECRET, required"`
	CookieName string `env:"SESSION_COOKIE_NAME, default=next-auth.session-token"`
}

// RedisConfig enables session revocation on sign-out. An empty Addr
// disables it.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// IsDevelopment reports whether verbose debug logging is enabled.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, envDevelopment)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upstream.BaseURL), "/")

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute http(s) URL, got %q", c.Upstream.BaseURL)
	}
	if strings.TrimSpace(c.Session.Secret) == "" {
		return fmt.Errorf("NEXTAUTH_SECRET must not be blank")
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative")
	}
	return nil
}
