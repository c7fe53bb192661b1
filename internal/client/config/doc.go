// Package config loads runtime configuration for the hotelbook CLI.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Optional dotenv file (.env, or the file given with -env). Variables
//     already present in the environment are not overwritten.
//  4. HOTELBOOK_* environment variables.
//  5. Command-line flags.
//
// Later sources override earlier ones; a source that does not mention a
// setting leaves it untouched.
//
// # Flags
//
//	-auth-url string    base URL of the auth API
//	-users-url string   base URL of the users API
//	-store string       token store: sqlite, memory or redis
//	-db string          SQLite database file
//	-profile string     session profile name
//	-redis string       Redis address for the redis store
//	-timeout duration   per-command request timeout
//	-log string         log format: text, json or zap
//	-log-level string   debug, info, warn or error
//
// # JSON schema
//
// Durations are strings such as "30s" or integer nanoseconds:
//
//	{
//	  "auth_base_url": "https://hotel.example/api/auth",
//	  "users_base_url": "https://hotel.example/api/users",
//	  "token_store": "sqlite",
//	  "request_timeout": "30s"
//	}
//
// The passphrase that seals tokens at rest is read from JSON or the
// environment only, never from flags.
package config
