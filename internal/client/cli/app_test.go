package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/hotelbook/internal/client/apitest"
	"github.com/dmitrijs2005/hotelbook/internal/client/config"
	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/dmitrijs2005/hotelbook/internal/client/session"
	"github.com/dmitrijs2005/hotelbook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv   *apitest.Server
	store *session.MemoryStore
	cfg   *config.Config
	out   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	withTerminal(t, false, nil)

	srv := apitest.NewServer(t)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AuthBaseURL = srv.AuthURL()
	cfg.UsersBaseURL = srv.UsersURL()
	cfg.TokenStore = config.StoreMemory
	cfg.RequestTimeout = 5 * time.Second

	return &harness{srv: srv, store: session.NewMemoryStore(), cfg: cfg}
}

// run feeds lines to a fresh App and returns everything it printed.
func (h *harness) run(lines ...string) string {
	h.out.Reset()
	app := newApp(h.cfg, logging.Discard(), h.store, http.DefaultClient,
		strings.NewReader(strings.Join(lines, "\n")+"\n"), &h.out)
	app.Run(context.Background())
	return h.out.String()
}

func (h *harness) signIn(t *testing.T) int64 {
	t.Helper()
	id := h.srv.AddUser("ann@example.com", "secret1", "Ann Lee", true)
	access, refresh, err := h.srv.IssueTokens(id)
	require.NoError(t, err)
	require.NoError(t, h.store.SetTokens(context.Background(), access, refresh))
	return id
}

func TestREPL_HelpDependsOnSession(t *testing.T) {
	h := newHarness(t)

	out := h.run("help", "exit")
	assert.Contains(t, out, "login")
	assert.NotContains(t, out, "bookings")
	assert.Contains(t, out, "Bye!")

	h.signIn(t)
	out = h.run("help", "exit")
	assert.Contains(t, out, "bookings [page] [per_page]")
	assert.Contains(t, out, "delete-notification <id>")
}

func TestREPL_UnknownAndRefusedCommands(t *testing.T) {
	h := newHarness(t)

	out := h.run("", "frobnicate", "profile", "quit")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "You are not signed in")
	assert.Zero(t, h.srv.Hits(apitest.UsersPrefix+"/profile"))
}

func TestREPL_EndOfInputStops(t *testing.T) {
	h := newHarness(t)
	app := newApp(h.cfg, logging.Discard(), h.store, http.DefaultClient, strings.NewReader("help"), &h.out)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("REPL did not stop at end of input")
	}
	assert.Contains(t, h.out.String(), "Available commands")
}

func TestLoginProfileLogout(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("ann@example.com", "secret1", "Ann Lee", true)

	out := h.run(
		"login", "ann@example.com", "secret1",
		"profile",
		"logout",
		"status",
		"exit",
	)

	assert.Contains(t, out, "Signed in")
	assert.Contains(t, out, "hotelbook (ann@example.com)> ")
	assert.Contains(t, out, "Ann Lee")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "Not signed in.")

	tk, err := h.store.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Tokens{}, tk)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("ann@example.com", "secret1", "Ann Lee", true)

	out := h.run("login", "ann@example.com", "nope", "exit")
	assert.Contains(t, out, "error: Invalid email or password")
}

func TestRegister_ShowsFieldErrors(t *testing.T) {
	h := newHarness(t)

	out := h.run("register", "bad", "A", "", "1", "exit")
	assert.Contains(t, out, "error: Validation error")
	assert.Contains(t, out, "  email: Invalid email format")
	assert.Contains(t, out, "  password: Shorter than minimum length 6.")
}

func TestRun_RestoresSavedSession(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.srv.ExpireAccessTokens()

	out := h.run("exit")
	assert.Contains(t, out, "Signed in as ann@example.com.")
	assert.Equal(t, 1, h.srv.Hits(apitest.AuthPrefix+"/refresh"))
}

func TestRun_DeadSavedSessionIsCleared(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.srv.ExpireAccessTokens()
	h.srv.RevokeRefreshTokens()

	out := h.run("exit")
	assert.Contains(t, out, "The saved session has expired")
	tk, _ := h.store.Tokens(context.Background())
	assert.False(t, tk.HasAccess())
}

func TestStatus_ShowsClaims(t *testing.T) {
	h := newHarness(t)
	id := h.signIn(t)

	out := h.run("status", "exit")
	assert.Contains(t, out, "Signed in (profile default).")
	assert.Contains(t, out, "user:           "+strconvI(id))
	assert.Contains(t, out, "(valid)")
	assert.Contains(t, out, "refresh token:  present")
}

func TestUpdateProfileAndChangePassword(t *testing.T) {
	h := newHarness(t)
	id := h.signIn(t)

	out := h.run(
		"update-profile", "Ann Marie Lee", "+37120000000", "", "LV123",
		"change-password", "secret1", "newpass1",
		"exit",
	)
	assert.Contains(t, out, "Profile updated")
	assert.Contains(t, out, "Password changed")

	u, _ := h.srv.User(id)
	assert.Equal(t, "Ann Marie Lee", u.FullName)
	assert.Nil(t, u.Address)
	require.NotNil(t, u.IDCard)
	assert.Equal(t, "LV123", *u.IDCard)
	assert.Equal(t, "newpass1", h.srv.Password(id))
}

func TestAvatarUpload(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o600))

	out := h.run("avatar "+path, "avatar", "exit")
	assert.Contains(t, out, "Avatar URL: /static/avatars/user_1.png")
	assert.Contains(t, out, "error: usage: avatar <path>")
}

func TestListsAndNotifications(t *testing.T) {
	h := newHarness(t)
	id := h.signIn(t)
	h.srv.AddBooking(id, models.Record{"booking_id": 7, "hotel": "Grand"})
	n := h.srv.AddNotification(id, "Booking confirmed", "See you soon")
	other := h.srv.AddNotification(id, "Promo", "10% off")

	out := h.run(
		"bookings",
		"favorites 1 5",
		"read "+strconvI(n),
		"delete-notification "+strconvI(other),
		"notifications",
		"bookings x",
		"read",
		"exit",
	)

	assert.Contains(t, out, `{"booking_id":7,"hotel":"Grand"}`)
	assert.Contains(t, out, "page 1 of 1, 1 total")
	assert.Contains(t, out, "No favorites.")
	assert.Contains(t, out, "  ["+strconvI(n)+"] Booking confirmed: See you soon")
	assert.NotContains(t, out, "Promo")
	assert.Contains(t, out, `error: invalid page "x"`)
	assert.Contains(t, out, "error: usage: read <id>")
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	id := h.srv.AddUser("ann@example.com", "secret1", "Ann Lee", true)

	h.run("forgot-password ann@example.com", "exit")
	token := h.srv.ResetTokenFor("ann@example.com")
	require.NotEmpty(t, token)

	out := h.run("reset-password "+token, "newpass1", "exit")
	assert.Contains(t, out, "Password has been reset")
	assert.Equal(t, "newpass1", h.srv.Password(id))
}

func TestSessionExpiryIsReported(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	// signed in locally, but the server no longer accepts either token
	h.srv.ExpireAccessTokens()
	h.srv.RevokeRefreshTokens()

	app := newApp(h.cfg, logging.Discard(), h.store, http.DefaultClient,
		strings.NewReader("profile\nprofile\nexit\n"), &h.out)
	app.runREPL(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "error: Your session has expired. Please sign in again.")
	assert.Contains(t, out, "You are not signed in. Use 'login' first.")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	t.Run("memory", func(t *testing.T) {
		cfg := *cfg
		cfg.TokenStore = config.StoreMemory
		st, closeFn, err := openStore(ctx, &cfg)
		require.NoError(t, err)
		assert.IsType(t, &session.MemoryStore{}, st)
		require.NoError(t, closeFn())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := *cfg
		cfg.DatabasePath = filepath.Join(t.TempDir(), "hotelbook.db")
		cfg.Passphrase = "pass"
		st, closeFn, err := openStore(ctx, &cfg)
		require.NoError(t, err)
		require.NoError(t, st.SetTokens(ctx, "a", "r"))
		require.NoError(t, closeFn())

		st, closeFn, err = openStore(ctx, &cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })
		tk, err := st.Tokens(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.Tokens{AccessToken: "a", RefreshToken: "r"}, tk)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := *cfg
		cfg.TokenStore = "etcd"
		_, _, err := openStore(ctx, &cfg)
		require.Error(t, err)
	})
}

func strconvI(id int64) string {
	return strconv.FormatInt(id, 10)
}
