package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/hotelbook/internal/flagx"
)

// Duration is a time.Duration that unmarshals from "30s" or nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// JsonConfig is the on-disk shape of the configuration. Absent fields are
// left nil and do not override earlier sources.
type JsonConfig struct {
	AuthBaseURL    *string   `json:"auth_base_url"`
	UsersBaseURL   *string   `json:"users_base_url"`
	TokenStore     *string   `json:"token_store"`
	DatabasePath   *string   `json:"database_path"`
	Profile        *string   `json:"profile"`
	RedisAddr      *string   `json:"redis_addr"`
	RedisPrefix    *string   `json:"redis_prefix"`
	Passphrase     *string   `json:"passphrase"`
	RequestTimeout *Duration `json:"request_timeout"`
	LogFormat      *string   `json:"log_format"`
	LogLevel       *string   `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.Lookup(args, "c", "config")
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set(&cfg.AuthBaseURL, jc.AuthBaseURL)
	set(&cfg.UsersBaseURL, jc.UsersBaseURL)
	set(&cfg.TokenStore, jc.TokenStore)
	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.Profile, jc.Profile)
	set(&cfg.RedisAddr, jc.RedisAddr)
	set(&cfg.RedisPrefix, jc.RedisPrefix)
	set(&cfg.Passphrase, jc.Passphrase)
	set(&cfg.LogFormat, jc.LogFormat)
	set(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
