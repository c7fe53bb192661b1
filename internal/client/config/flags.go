package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/hotelbook/internal/flagx"
)

var flagNames = []string{
	"auth-url", "users-url", "store", "db", "profile", "redis", "timeout", "log", "log-level",
}

// parseFlags overlays cfg with the command-line flags it owns. Other flags
// in args (-c, -env) are left to their own parsers.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("hotelbook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthBaseURL, "auth-url", cfg.AuthBaseURL, "base URL of the auth API")
	fs.StringVar(&cfg.UsersBaseURL, "users-url", cfg.UsersBaseURL, "base URL of the users API")
	fs.StringVar(&cfg.TokenStore, "store", cfg.TokenStore, "token store: sqlite, memory or redis")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database file")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "session profile name")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-command request timeout")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format: text, json or zap")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
