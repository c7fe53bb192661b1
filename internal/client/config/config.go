package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/hotelbook/internal/logging"
)

// Token store kinds.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the hotelbook CLI.
type Config struct {
	AuthBaseURL  string `env:"HOTELBOOK_AUTH_URL"`
	UsersBaseURL string `env:"HOTELBOOK_USERS_URL"`

	TokenStore   string `env:"HOTELBOOK_TOKEN_STORE"`
	DatabasePath string `env:"HOTELBOOK_DB"`
	Profile      string `env:"HOTELBOOK_PROFILE"`
	RedisAddr    string `env:"HOTELBOOK_REDIS_ADDR"`
	RedisPrefix  string `env:"HOTELBOOK_REDIS_PREFIX"`
	Passphrase   string `env:"HOTELBOOK_PASSPHRASE"`

	// RequestTimeout bounds each CLI command, refresh and retry included.
	RequestTimeout time.Duration `env:"HOTELBOOK_TIMEOUT"`

	LogFormat string `env:"HOTELBOOK_LOG_FORMAT"`
	LogLevel  string `env:"HOTELBOOK_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://localhost:5000/api/auth"
	c.UsersBaseURL = "http://localhost:5000/api/users"
	c.TokenStore = StoreSQLite
	c.DatabasePath = "hotelbook.db"
	c.Profile = "default"
	c.RedisAddr = "localhost:6379"
	c.RedisPrefix = "hotelbook"
	c.RequestTimeout = 30 * time.Second
	c.LogFormat = logging.FormatText
	c.LogLevel = "warn"
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.AuthBaseURL == "" {
		errs = append(errs, errors.New("auth base URL is empty"))
	}
	if c.UsersBaseURL == "" {
		errs = append(errs, errors.New("users base URL is empty"))
	}
	if !slices.Contains([]string{StoreSQLite, StoreMemory, StoreRedis}, c.TokenStore) {
		errs = append(errs, fmt.Errorf("unknown token store %q", c.TokenStore))
	}
	if c.Profile == "" {
		errs = append(errs, errors.New("profile is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if !slices.Contains([]string{logging.FormatText, logging.FormatJSON, logging.FormatZap}, c.LogFormat) {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LoadConfig builds a Config from defaults, then JSON, dotenv, environment
// and flags found in args (usually os.Args[1:]). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
