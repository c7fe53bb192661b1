// Package auth is the client of the remote authentication API: account
// creation, sign-in and sign-out, password reset, e-mail verification and
// token refresh.
//
// The Client is also the rest.Refresher of every executor sharing its
// session, so concurrent refreshes from the auth and users clients collapse
// into a single network call.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/dmitrijs2005/hotelbook/internal/client/rest"
	"github.com/dmitrijs2005/hotelbook/internal/client/session"
	"github.com/dmitrijs2005/hotelbook/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Endpoint paths relative to the auth base URL.
const (
	RegisterPath           = "/register"
	LoginPath              = "/login"
	LogoutPath             = "/logout"
	RefreshPath            = rest.DefaultRefreshEndpoint
	VerifyTokenPath        = "/verify-token"
	ForgotPasswordPath     = "/forgot-password"
	ResetPasswordPath      = "/reset-password"
	VerifyEmailPath        = "/verify-email"
	ResendVerificationPath = "/resend-verification"
)

const (
	NotLoggedInMessage    = "You are not signed in."
	NoRefreshTokenMessage = "No refresh token is available."
)

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrNoRefreshToken = errors.New("no refresh token")
)

type Client struct {
	exec   *rest.Executor
	store  session.Store
	log    logging.Logger
	flight singleflight.Group
}

type options struct {
	httpClient *http.Client
	log        logging.Logger
}

type Option func(*options)

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// NewClient builds a client of the auth API at baseURL working on store.
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	o := options{httpClient: http.DefaultClient, log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{store: store, log: o.log.With("api", "auth")}
	c.exec = rest.NewExecutor(baseURL, store,
		rest.WithHTTPClient(o.httpClient),
		rest.WithLogger(c.log),
		rest.WithRefresher(c),
		rest.WithRefreshEndpoint(RefreshPath),
	)
	return c
}

// Store returns the session the client works on.
func (c *Client) Store() session.Store {
	return c.store
}

// Register creates an account and, on success, stores the returned tokens.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) *rest.Outcome {
	out := c.exec.Do(ctx, rest.Request{Method: http.MethodPost, Endpoint: RegisterPath, Body: req})
	return c.persist(ctx, out)
}

// Login signs in and, on success, stores the returned tokens.
func (c *Client) Login(ctx context.Context, email, password string) *rest.Outcome {
	out := c.exec.Do(ctx, rest.Request{
		Method:   http.MethodPost,
		Endpoint: LoginPath,
		Body:     models.LoginRequest{Email: email, Password: password},
	})
	return c.persist(ctx, out)
}

func (c *Client) persist(ctx context.Context, out *rest.Outcome) *rest.Outcome {
	if !out.Success || out.Data == nil {
		return out
	}

	var data models.AuthData
	if err := out.Decode(&data); err != nil {
		c.log.Warn(ctx, "sign-in response without tokens", "error", err)
		return out
	}

	if err := c.store.SetTokens(ctx, data.AccessToken, data.RefreshToken); err != nil {
		c.log.Error(ctx, "failed to store tokens", "error", err)
		return rest.Failure(0, rest.StorageFailureMessage, err)
	}
	return out
}

// Logout notifies the server and always clears the local session, whatever
// the server answers.
func (c *Client) Logout(ctx context.Context) *rest.Outcome {
	defer func() {
		if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
			c.log.Error(ctx, "failed to clear session", "error", err)
		}
	}()

	tokens, err := c.store.Tokens(ctx)
	if err != nil {
		return rest.Failure(0, rest.StorageFailureMessage, err)
	}
	if !tokens.HasAccess() {
		return rest.Failure(http.StatusUnauthorized, NotLoggedInMessage, ErrNotLoggedIn)
	}

	return c.exec.Do(ctx, rest.Request{Method: http.MethodPost, Endpoint: LogoutPath, Auth: true})
}

// Refresh exchanges the stored refresh token for a new access token. The
// refresh token itself is kept. Concurrent callers share one request, which
// outlives any single caller; a caller whose ctx ends stops waiting for it.
func (c *Client) Refresh(ctx context.Context) *rest.Outcome {
	ch := c.flight.DoChan(RefreshPath, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		return res.Val.(*rest.Outcome).Clone()
	case <-ctx.Done():
		return rest.Failure(0, rest.ConnectivityMessage, fmt.Errorf("%w: %w", rest.ErrTransport, ctx.Err()))
	}
}

func (c *Client) refresh(ctx context.Context) *rest.Outcome {
	tokens, err := c.store.Tokens(ctx)
	if err != nil {
		return rest.Failure(0, rest.StorageFailureMessage, err)
	}
	if !tokens.HasRefresh() {
		return rest.Failure(0, NoRefreshTokenMessage, ErrNoRefreshToken)
	}

	out := c.exec.Do(ctx, rest.Request{
		Method:   http.MethodPost,
		Endpoint: RefreshPath,
		Bearer:   tokens.RefreshToken,
		NoRetry:  true,
	})
	if !out.Success {
		return out
	}

	var data models.AuthData
	if err := out.Decode(&data); err != nil || data.AccessToken == "" {
		c.log.Warn(ctx, "refresh response without access token", "error", err)
		return rest.Failure(out.Status, out.Message, rest.ErrDecode)
	}

	if err := c.store.SetTokens(ctx, data.AccessToken, tokens.RefreshToken); err != nil {
		return rest.Failure(0, rest.StorageFailureMessage, err)
	}

	c.log.Info(ctx, "access token refreshed")
	return out
}

func (c *Client) ForgotPassword(ctx context.Context, email string) *rest.Outcome {
	return c.exec.Do(ctx, rest.Request{
		Method:   http.MethodPost,
		Endpoint: ForgotPasswordPath,
		Body:     models.EmailRequest{Email: email},
	})
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) *rest.Outcome {
	return c.exec.Do(ctx, rest.Request{
		Method:   http.MethodPost,
		Endpoint: ResetPasswordPath,
		Body:     models.ResetPasswordRequest{Token: token, NewPassword: newPassword},
	})
}

func (c *Client) VerifyEmail(ctx context.Context, token string) *rest.Outcome {
	return c.exec.Do(ctx, rest.Request{
		Method:   http.MethodPost,
		Endpoint: VerifyEmailPath,
		Body:     models.TokenRequest{Token: token},
	})
}

func (c *Client) ResendVerification(ctx context.Context) *rest.Outcome {
	return c.exec.Do(ctx, rest.Request{Method: http.MethodPost, Endpoint: ResendVerificationPath, Auth: true})
}

// VerifyToken asks the server whether the current access token is valid.
func (c *Client) VerifyToken(ctx context.Context) *rest.Outcome {
	return c.exec.Do(ctx, rest.Request{Method: http.MethodGet, Endpoint: VerifyTokenPath, Auth: true})
}
