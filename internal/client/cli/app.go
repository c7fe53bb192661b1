package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/hotelbook/internal/client/auth"
	"github.com/dmitrijs2005/hotelbook/internal/client/config"
	"github.com/dmitrijs2005/hotelbook/internal/client/session"
	"github.com/dmitrijs2005/hotelbook/internal/client/storage"
	"github.com/dmitrijs2005/hotelbook/internal/client/users"
	"github.com/dmitrijs2005/hotelbook/internal/logging"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	log    logging.Logger

	store session.Store
	auth  *auth.Client
	users *users.Client

	reader *bufio.Reader
	out    io.Writer

	// email of the account signed in during this run, for the prompt only
	email string

	closers []func() error
}

// NewApp opens the configured token store and builds both API clients on it.
// Commands are read from in and results written to out.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	app := newApp(c, log, store, http.DefaultClient, in, out)
	app.closers = append(app.closers, closeStore)
	return app, nil
}

func newApp(c *config.Config, log logging.Logger, store session.Store, hc *http.Client, in io.Reader, out io.Writer) *App {
	a := auth.NewClient(c.AuthBaseURL, store, auth.WithHTTPClient(hc), auth.WithLogger(log))
	u := users.NewClient(c.UsersBaseURL, store, a, users.WithHTTPClient(hc), users.WithLogger(log))

	return &App{
		config: c,
		log:    log,
		store:  store,
		auth:   a,
		users:  u,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// openStore builds the token store named by c.TokenStore and returns the
// function releasing its resources.
func openStore(ctx context.Context, c *config.Config) (session.Store, func() error, error) {
	switch c.TokenStore {
	case config.StoreMemory:
		return session.NewMemoryStore(), func() error { return nil }, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", c.RedisAddr, err)
		}
		return session.NewRedisStore(rdb, c.RedisPrefix, c.Profile), rdb.Close, nil

	case config.StoreSQLite:
		db, err := storage.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database %s: %w", c.DatabasePath, err)
		}
		st, err := session.NewMetadataStore(ctx, db, c.Profile, []byte(c.Passphrase))
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return st, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown token store %q", c.TokenStore)
}

// Run checks a session left by a previous run, then serves commands until
// exit or end of input.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to hotelbook CLI (type 'help' for commands)")

	if a.auth.LoggedIn(ctx) {
		a.execute(ctx, command{name: "verify", run: a.restoreSession}, nil)
	}

	a.runREPL(ctx)
}

// Close releases the token store.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) restoreSession(ctx context.Context, _ []string) error {
	if !a.auth.VerifySession(ctx) {
		fmt.Fprintln(a.out, "The saved session has expired. Please sign in again.")
		return nil
	}

	out := a.users.Profile(ctx)
	if u, ok := decodeUser(out); ok {
		a.email = u.Email
		fmt.Fprintf(a.out, "Signed in as %s.\n", u.Email)
	}
	return nil
}
