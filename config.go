package userapi

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// AppConfig is loaded from the environment. JWT_KEY is the only required
// value; without it the service refuses to start.
type AppConfig struct {
	SigningKey        string `env:"JWT_KEY"`
	Issuer            string `env:"JWT_ISSUER"`
	Audience          string `env:"JWT_AUDIENCE"`
	ExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"60"`

	AdminUser string `env:"ADMIN_USER"`
	AdminPass string `env:"ADMIN_PASS"`

	DSN        string `env:"DB_DSN" envDefault:"file::memory:?cache=shared"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8572"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
}

// LoadConfig parses the environment into an AppConfig
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to parse environment configuration")
	}
	return cfg, nil
}

// Validate fails fast on configuration the service cannot run without
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.SigningKey) == "" {
		return ErrMissingSigningKey
	}

	if c.ExpirationMinutes == 0 {
		c.ExpirationMinutes = 60
	}

	return nil
}

func (c *AppConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AppConfig) GetTokenExpiration() int {
	return c.ExpirationMinutes
}

func (c *AppConfig) GetIssuer() string {
	return c.Issuer
}

func (c *AppConfig) GetAudience() []string {
	if strings.TrimSpace(c.Audience) == "" {
		return nil
	}

	parts := strings.Split(c.Audience, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *AppConfig) GetContextKey() string {
	return "principal"
}

func (c *AppConfig) GetAuthScheme() string {
	return "Bearer"
}

var _ Config = (*AppConfig)(nil)

// PersistenceConfig feeds the persistence client at the composition root
type PersistenceConfig struct {
	Debug       bool
	DSN         string
	PingTimeout time.Duration
}

func (p PersistenceConfig) GetDebug() bool {
	return p.Debug
}

func (p PersistenceConfig) GetDriver() string {
	return sqliteshim.ShimName
}

func (p PersistenceConfig) GetServer() string {
	return p.DSN
}

func (p PersistenceConfig) GetOtelIdentifier() string {
	return ""
}

func (p PersistenceConfig) GetDSN() string {
	return p.DSN
}

func (p PersistenceConfig) GetPingTimeout() time.Duration {
	if p.PingTimeout == 0 {
		return 5 * time.Second
	}
	return p.PingTimeout
}

// GetPersistence returns the persistence view of the app configuration
func (c *AppConfig) GetPersistence() PersistenceConfig {
	return PersistenceConfig{
		Debug: c.Debug,
		DSN:   c.DSN,
	}
}
