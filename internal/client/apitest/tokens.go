package apitest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenType string

const (
	tokenAccess  tokenType = "access"
	tokenRefresh tokenType = "refresh"
)

type claims struct {
	Type tokenType `json:"type"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// IssueTokens mints a valid token pair for userID.
func (a *API) IssueTokens(userID int64) (access, refresh string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	access, err = a.issueLocked(userID, tokenAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = a.issueLocked(userID, tokenRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (a *API) issueLocked(userID int64, typ tokenType) (string, error) {
	ttl := a.accessTTL
	valid := a.validAccess
	if typ == tokenRefresh {
		ttl = a.refreshTTL
		valid = a.validRefresh
	}

	now := a.now()
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	valid[jti] = true
	return signed, nil
}

// ExpireAccessTokens invalidates every access token issued so far.
func (a *API) ExpireAccessTokens() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.validAccess = map[string]bool{}
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (a *API) RevokeRefreshTokens() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.validRefresh = map[string]bool{}
}

func (a *API) parse(raw string, want tokenType) (int64, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return 0, err
	}
	if c.Type != want {
		return 0, fmt.Errorf("expected %s token, got %s", want, c.Type)
	}

	a.mu.Lock()
	valid := a.validAccess[c.ID]
	if want == tokenRefresh {
		valid = a.validRefresh[c.ID]
	}
	a.mu.Unlock()

	if !valid {
		return 0, errors.New("token has been revoked")
	}
	return strconv.ParseInt(c.Subject, 10, 64)
}

// requireToken rejects requests without a valid bearer token of type typ and
// puts the user id into the request context.
func (a *API) requireToken(typ tokenType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "Missing Authorization Header", nil)
				return
			}

			userID, err := a.parse(raw, typ)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Token has expired", nil)
				return
			}

			a.mu.Lock()
			acc, exists := a.accounts[userID]
			active := exists && acc.user.IsActive
			a.mu.Unlock()
			if !active {
				writeError(w, http.StatusUnauthorized, "User not found or inactive", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
		})
	}
}

func userIDFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKey{}).(int64)
	return id
}

func (a *API) sleepRefresh(ctx context.Context) {
	a.mu.Lock()
	d := a.refreshDelay
	a.mu.Unlock()
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
