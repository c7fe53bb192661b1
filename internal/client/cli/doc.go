// Package cli provides the interactive hotelbook command-line client.
//
// It wires configuration, the token store selected by config (SQLite, memory
// or Redis), the auth and users API clients, and a REPL. Every command runs
// under the configured request timeout, which covers a silent token refresh
// and the retried request.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli
