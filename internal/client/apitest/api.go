// Package apitest is an in-process fake of the remote auth and users REST
// APIs, used by client tests.
//
// It speaks the same envelope ({success, message, data, errors, pagination}),
// issues HS256 JWTs and lets tests expire or revoke them, count hits per
// route and inspect the last request received on a route.
package apitest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/go-chi/chi/v5"
)

const (
	AuthPrefix  = "/api/auth"
	UsersPrefix = "/api/users"
)

// RecordedRequest is what the fake remembers about a request.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
}

type account struct {
	user     models.User
	password string

	bookings      []models.Record
	favorites     []models.Record
	notifications []models.Notification
}

// API holds the fake's state. All methods are safe for concurrent use.
type API struct {
	mu sync.Mutex

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	nextUserID  int64
	nextNotifID int64
	accounts    map[int64]*account
	byEmail     map[string]int64

	validAccess  map[string]bool // jti -> valid
	validRefresh map[string]bool

	resetTokens  map[string]int64
	verifyTokens map[string]int64

	refreshDelay time.Duration

	hits map[string]int
	last map[string]RecordedRequest
}

func NewAPI() *API {
	return &API{
		secret:       []byte("apitest-secret"),
		accessTTL:    15 * time.Minute,
		refreshTTL:   24 * time.Hour,
		now:          time.Now,
		nextUserID:   1,
		nextNotifID:  1,
		accounts:     map[int64]*account{},
		byEmail:      map[string]int64{},
		validAccess:  map[string]bool{},
		validRefresh: map[string]bool{},
		resetTokens:  map[string]int64{},
		verifyTokens: map[string]int64{},
		hits:         map[string]int{},
		last:         map[string]RecordedRequest{},
	}
}

// Handler routes both APIs under AuthPrefix and UsersPrefix.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(a.record)

	r.Route(AuthPrefix, func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/login", a.login)
		r.Post("/forgot-password", a.forgotPassword)
		r.Post("/reset-password", a.resetPassword)
		r.Post("/verify-email", a.verifyEmail)
		r.With(a.requireToken(tokenRefresh)).Post("/refresh", a.refresh)

		r.Group(func(r chi.Router) {
			r.Use(a.requireToken(tokenAccess))
			r.Post("/logout", a.logout)
			r.Get("/verify-token", a.verifyToken)
			r.Post("/resend-verification", a.resendVerification)
		})
	})

	r.Route(UsersPrefix, func(r chi.Router) {
		r.Use(a.requireToken(tokenAccess))
		r.Get("/profile", a.getProfile)
		r.Put("/profile", a.updateProfile)
		r.Put("/change-password", a.changePassword)
		r.Post("/upload-avatar", a.uploadAvatar)
		r.Get("/bookings", a.listBookings)
		r.Get("/favorites", a.listFavorites)
		r.Get("/notifications", a.listNotifications)
		r.Put("/notifications/{id}/read", a.markNotificationRead)
		r.Delete("/notifications/{id}", a.deleteNotification)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", nil)
	})
	return r
}

func (a *API) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.hits[r.URL.Path]++
		a.last[r.URL.Path] = RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-Id"),
		}
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Hits returns how many requests reached path (e.g. "/api/auth/refresh").
func (a *API) Hits(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[path]
}

// LastRequest returns the last request received on path.
func (a *API) LastRequest(path string) (RecordedRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.last[path]
	return r, ok
}

// SetRefreshDelay makes the refresh endpoint wait before answering.
func (a *API) SetRefreshDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshDelay = d
}

// AddUser seeds an account and returns its id.
func (a *API) AddUser(email, password, fullName string, verified bool) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addUserLocked(email, password, fullName, nil, verified)
}

func (a *API) addUserLocked(email, password, fullName string, phone *string, verified bool) int64 {
	id := a.nextUserID
	a.nextUserID++
	a.accounts[id] = &account{
		user: models.User{
			UserID:        id,
			Email:         email,
			FullName:      fullName,
			Phone:         phone,
			Role:          "customer",
			EmailVerified: verified,
			IsActive:      true,
			CreatedAt:     a.now().UTC().Format(time.RFC3339),
		},
		password: password,
	}
	a.byEmail[strings.ToLower(email)] = id
	return id
}

// User returns a copy of the account's public data.
func (a *API) User(id int64) (models.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

// Password returns the account's current password.
func (a *API) Password(id int64) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if acc, ok := a.accounts[id]; ok {
		return acc.password
	}
	return ""
}

func (a *API) AddBooking(userID int64, b models.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if acc, ok := a.accounts[userID]; ok {
		acc.bookings = append(acc.bookings, b)
	}
}

func (a *API) AddFavorite(userID int64, f models.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if acc, ok := a.accounts[userID]; ok {
		acc.favorites = append(acc.favorites, f)
	}
}

// AddNotification seeds an unread notification and returns its id.
func (a *API) AddNotification(userID int64, title, message string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[userID]
	if !ok {
		return 0
	}
	id := a.nextNotifID
	a.nextNotifID++
	acc.notifications = append(acc.notifications, models.Notification{
		NotificationID: id,
		Title:          title,
		Message:        message,
		Type:           "system",
		CreatedAt:      a.now().UTC().Format(time.RFC3339),
	})
	return id
}

// Notifications returns a copy of the account's notifications.
func (a *API) Notifications(userID int64) []models.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	if acc, ok := a.accounts[userID]; ok {
		return append([]models.Notification(nil), acc.notifications...)
	}
	return nil
}

// ResetTokenFor returns the last password-reset token mailed to email.
func (a *API) ResetTokenFor(email string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return tokenFor(a.resetTokens, a.byEmail[strings.ToLower(email)])
}

// VerificationTokenFor returns the last verification token mailed to email.
func (a *API) VerificationTokenFor(email string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return tokenFor(a.verifyTokens, a.byEmail[strings.ToLower(email)])
}

func tokenFor(tokens map[string]int64, userID int64) string {
	for t, id := range tokens {
		if id == userID {
			return t
		}
	}
	return ""
}
