package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hotelbook/internal/client/session"
	"github.com/dmitrijs2005/hotelbook/internal/logging"
	"github.com/google/uuid"
)

// DefaultRefreshEndpoint is the path of the token refresh call.
const DefaultRefreshEndpoint = "/refresh"

// RequestIDHeader carries a per-attempt correlation id.
const RequestIDHeader = "X-Request-Id"

// Refresher mints a new access token from the stored refresh token and
// stores it. It is implemented by the auth client.
type Refresher interface {
	Refresh(ctx context.Context) *Outcome
}

// Executor sends requests to one base URL on behalf of a session.
type Executor struct {
	baseURL         string
	httpClient      *http.Client
	store           session.Store
	refresher       Refresher
	refreshEndpoint string
	log             logging.Logger
	newRequestID    func() string
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) { e.httpClient = c }
}

// WithRefresher enables refresh-on-401.
func WithRefresher(r Refresher) Option {
	return func(e *Executor) { e.refresher = r }
}

// WithRefreshEndpoint changes the path that never triggers a refresh.
func WithRefreshEndpoint(path string) Option {
	return func(e *Executor) { e.refreshEndpoint = path }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// NewExecutor builds an executor for the API at baseURL reading tokens from store.
func NewExecutor(baseURL string, store session.Store, opts ...Option) *Executor {
	e := &Executor{
		baseURL:         baseURL,
		httpClient:      http.DefaultClient,
		store:           store,
		refreshEndpoint: DefaultRefreshEndpoint,
		log:             logging.Discard(),
		newRequestID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the session the executor reads tokens from.
func (e *Executor) Store() session.Store {
	return e.store
}

// Do sends req and, on an authorization failure it can recover from,
// refreshes the access token and sends req once more.
func (e *Executor) Do(ctx context.Context, req Request) *Outcome {
	out := e.attempt(ctx, req)
	if !e.refreshable(req, out) {
		return out
	}

	tokens, err := e.store.Tokens(ctx)
	if err != nil {
		return storageFailure(err)
	}
	if !tokens.HasRefresh() || e.refresher == nil {
		e.log.Info(ctx, "access rejected and no refresh token, ending session", "endpoint", req.Endpoint)
		return e.expire(ctx)
	}

	refreshed := e.refresher.Refresh(ctx)
	if !refreshed.Success && ctx.Err() != nil {
		// The caller gave up; the session may still be valid for others.
		return transportFailure(fmt.Errorf("%w: %w", ErrTransport, ctx.Err()))
	}
	if !refreshed.Success {
		e.log.Warn(ctx, "token refresh failed, ending session",
			"endpoint", req.Endpoint, "status", refreshed.Status, "message", refreshed.Message)
		return e.expire(ctx)
	}

	e.log.Debug(ctx, "token refreshed, retrying request", "endpoint", req.Endpoint)
	req.NoRetry = true
	return e.attempt(ctx, req)
}

func (e *Executor) refreshable(req Request, out *Outcome) bool {
	return out.Status == http.StatusUnauthorized &&
		req.Auth &&
		!req.NoRetry &&
		req.Endpoint != e.refreshEndpoint
}

func (e *Executor) expire(ctx context.Context) *Outcome {
	if err := e.store.Clear(context.WithoutCancel(ctx)); err != nil {
		e.log.Error(ctx, "failed to clear session", "error", err)
	}
	return sessionExpired()
}

// attempt performs a single round trip and normalizes its result.
func (e *Executor) attempt(ctx context.Context, req Request) *Outcome {
	httpReq, err := e.build(ctx, req)
	if err != nil {
		if errors.Is(err, session.ErrStorage) {
			return storageFailure(err)
		}
		return transportFailure(fmt.Errorf("%w: %w", ErrTransport, err))
	}

	log := e.log.With("method", req.Method, "endpoint", req.Endpoint, "request_id", httpReq.Header.Get(RequestIDHeader))

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return transportFailure(fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Warn(ctx, "undecodable response", "status", resp.StatusCode, "error", err)
		return transportFailure(fmt.Errorf("%w: status %d: %w", ErrDecode, resp.StatusCode, err))
	}

	log.Debug(ctx, "response received", "status", resp.StatusCode, "success", env.Success)
	return env.outcome(resp.StatusCode)
}

func (e *Executor) build(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := req.body()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.url(e.baseURL), body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, e.newRequestID())

	bearer := req.Bearer
	if bearer == "" && req.Auth {
		tokens, err := e.store.Tokens(ctx)
		if err != nil {
			return nil, err
		}
		bearer = tokens.AccessToken
	}
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	return httpReq, nil
}
