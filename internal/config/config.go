// Package config loads careerctl settings from CAREER_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the full client configuration.
type Config struct {
	APIBaseURL string `env:"CAREER_API_BASE_URL" envDefault:"http://localhost:5000"`

	GoogleClientID   string `env:"CAREER_GOOGLE_CLIENT_ID"`
	GoogleCredential string `env:"CAREER_GOOGLE_CREDENTIAL"`

	LinkedInClientID string   `env:"CAREER_LINKEDIN_CLIENT_ID"`
	LinkedInScopes   []string `env:"CAREER_LINKEDIN_SCOPES" envSeparator:","`
	CallbackAddr     string   `env:"CAREER_CALLBACK_ADDR"   envDefault:"127.0.0.1:8765"`

	Store          string `env:"CAREER_STORE"           envDefault:"sqlite"`
	DBPath         string `env:"CAREER_DB_PATH"         envDefault:"data/session.db"`
	RedisAddr      string `env:"CAREER_REDIS_ADDR"      envDefault:"localhost:6379"`
	RedisPassword  string `env:"CAREER_REDIS_PASSWORD"`
	RedisDB        int    `env:"CAREER_REDIS_DB"        envDefault:"0"`
	RedisNamespace string `env:"CAREER_REDIS_NAMESPACE" envDefault:"career"`

	PollInterval  time.Duration `env:"CAREER_POLL_INTERVAL"  envDefault:"1s"`
	FlowTimeout   time.Duration `env:"CAREER_FLOW_TIMEOUT"   envDefault:"5m"`
	RedirectDelay time.Duration `env:"CAREER_REDIRECT_DELAY" envDefault:"1s"`

	RevokeOnSignOut bool `env:"CAREER_REVOKE_ON_SIGN_OUT" envDefault:"false"`

	LogLevel string `env:"CAREER_LOG_LEVEL" envDefault:"info"`

	ScreenWidth  int `env:"CAREER_SCREEN_WIDTH"  envDefault:"1920"`
	ScreenHeight int `env:"CAREER_SCREEN_HEIGHT" envDefault:"1080"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LinkedInScopes = trimCSV(cfg.LinkedInScopes)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("CAREER_API_BASE_URL %q is not an absolute URL", c.APIBaseURL))
	}
	if _, _, err := net.SplitHostPort(c.CallbackAddr); err != nil {
		errs = append(errs, fmt.Errorf("CAREER_CALLBACK_ADDR %q: %w", c.CallbackAddr, err))
	}

	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("CAREER_DB_PATH is required for the sqlite store"))
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("CAREER_REDIS_ADDR is required for the redis store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("CAREER_STORE %q must be one of sqlite, memory, redis", c.Store))
	}

	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("CAREER_POLL_INTERVAL must be positive"))
	}
	if c.FlowTimeout < c.PollInterval {
		errs = append(errs, errors.New("CAREER_FLOW_TIMEOUT must not be shorter than CAREER_POLL_INTERVAL"))
	}
	if c.RedirectDelay <= 0 {
		errs = append(errs, errors.New("CAREER_REDIRECT_DELAY must be positive"))
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		errs = append(errs, errors.New("CAREER_SCREEN_WIDTH and CAREER_SCREEN_HEIGHT must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// CallbackOrigin is the origin LinkedIn redirects back to.
func (c Config) CallbackOrigin() string {
	return "http://" + c.CallbackAddr
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("CAREER_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
