package auth

import (
	"context"
)

// LoggedIn reports whether an access token is stored. It makes no network call.
func (c *Client) LoggedIn(ctx context.Context) bool {
	tokens, err := c.store.Tokens(ctx)
	return err == nil && tokens.HasAccess()
}

// VerifySession checks with the server that the session is alive.
//
// A 401 from verify-token with a refresh token still stored earns one more
// refresh followed by a second verification. Every other failure clears the
// session and reports false.
func (c *Client) VerifySession(ctx context.Context) bool {
	tokens, err := c.store.Tokens(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to read session", "error", err)
		return false
	}
	if !tokens.HasAccess() {
		c.endSession(ctx)
		return false
	}

	out := c.VerifyToken(ctx)
	if out.Success {
		return true
	}

	if out.Unauthorized() {
		if tokens, err = c.store.Tokens(ctx); err == nil && tokens.HasRefresh() {
			if c.Refresh(ctx).Success && c.VerifyToken(ctx).Success {
				return true
			}
		}
	}

	c.log.Info(ctx, "session is no longer valid", "status", out.Status)
	c.endSession(ctx)
	return false
}

func (c *Client) endSession(ctx context.Context) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error(ctx, "failed to clear session", "error", err)
	}
}
