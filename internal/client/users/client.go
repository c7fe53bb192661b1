// Package users is the client of the remote users API: profile, password,
// avatar, bookings, favorites and notifications. Every call is authorized
// and recovers from an expired access token through the shared refresher.
package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/dmitrijs2005/hotelbook/internal/client/rest"
	"github.com/dmitrijs2005/hotelbook/internal/client/session"
	"github.com/dmitrijs2005/hotelbook/internal/logging"
)

const (
	ProfilePath        = "/profile"
	ChangePasswordPath = "/change-password"
	UploadAvatarPath   = "/upload-avatar"
	BookingsPath       = "/bookings"
	FavoritesPath      = "/favorites"
	NotificationsPath  = "/notifications"
)

// AvatarField is the multipart field name of the avatar file.
const AvatarField = "avatar"

const (
	DefaultPerPage             = 10
	DefaultNotificationPerPage = 20
)

// AvatarExtensions lists the file types the server accepts as avatars.
var AvatarExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var ErrAvatarType = errors.New("unsupported avatar file type")

type Client struct {
	exec *rest.Executor
	log  logging.Logger
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

// NewClient builds a client of the users API at baseURL. refresher is
// usually the auth client working on the same store.
func NewClient(baseURL string, store session.Store, refresher rest.Refresher, opts ...Option) *Client {
	o := options{httpClient: http.DefaultClient, log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log.With("api", "users")
	execOpts := []rest.Option{rest.WithHTTPClient(o.httpClient), rest.WithLogger(log)}
	if refresher != nil {
		execOpts = append(execOpts, rest.WithRefresher(refresher))
	}

	return &Client{exec: rest.NewExecutor(baseURL, store, execOpts...), log: log}
}

func (c *Client) do(ctx context.Context, req rest.Request) *rest.Outcome {
	req.Auth = true
	return c.exec.Do(ctx, req)
}

func (c *Client) Profile(ctx context.Context) *rest.Outcome {
	return c.do(ctx, rest.Request{Method: http.MethodGet, Endpoint: ProfilePath})
}

// UpdateProfile replaces the editable profile fields. Nil optional fields
// are cleared on the server.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) *rest.Outcome {
	return c.do(ctx, rest.Request{Method: http.MethodPut, Endpoint: ProfilePath, Body: upd})
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) *rest.Outcome {
	return c.do(ctx, rest.Request{
		Method:   http.MethodPut,
		Endpoint: ChangePasswordPath,
		Body:     models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword},
	})
}

// UploadAvatar sends the content of r as a multipart file named fileName.
// Unsupported extensions are rejected locally with status 0.
func (c *Client) UploadAvatar(ctx context.Context, fileName string, r io.Reader) *rest.Outcome {
	if !validAvatar(fileName) {
		return rest.Failure(0,
			fmt.Sprintf("Avatar must be one of %s.", strings.Join(AvatarExtensions, ", ")),
			ErrAvatarType)
	}

	form, err := rest.NewMultipart(AvatarField, fileName, r)
	if err != nil {
		return rest.Failure(0, "Unable to read the avatar file.", err)
	}

	return c.do(ctx, rest.Request{Method: http.MethodPost, Endpoint: UploadAvatarPath, Form: form})
}

func validAvatar(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range AvatarExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Bookings lists the caller's bookings. Non-positive page or perPage fall
// back to 1 and DefaultPerPage.
func (c *Client) Bookings(ctx context.Context, page, perPage int) *rest.Outcome {
	return c.list(ctx, BookingsPath, page, perPage, DefaultPerPage)
}

func (c *Client) Favorites(ctx context.Context, page, perPage int) *rest.Outcome {
	return c.list(ctx, FavoritesPath, page, perPage, DefaultPerPage)
}

func (c *Client) Notifications(ctx context.Context, page, perPage int) *rest.Outcome {
	return c.list(ctx, NotificationsPath, page, perPage, DefaultNotificationPerPage)
}

func (c *Client) list(ctx context.Context, endpoint string, page, perPage, def int) *rest.Outcome {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return c.do(ctx, rest.Request{Method: http.MethodGet, Endpoint: endpoint, Query: q})
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) *rest.Outcome {
	return c.do(ctx, rest.Request{
		Method:   http.MethodPut,
		Endpoint: fmt.Sprintf("%s/%d/read", NotificationsPath, id),
	})
}

func (c *Client) DeleteNotification(ctx context.Context, id int64) *rest.Outcome {
	return c.do(ctx, rest.Request{
		Method:   http.MethodDelete,
		Endpoint: fmt.Sprintf("%s/%d", NotificationsPath, id),
	})
}
