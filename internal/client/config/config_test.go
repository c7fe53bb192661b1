package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:5000/api/auth", c.AuthBaseURL)
	assert.Equal(t, "http://localhost:5000/api/users", c.UsersBaseURL)
	assert.Equal(t, StoreSQLite, c.TokenStore)
	assert.Equal(t, "default", c.Profile)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoSourcesGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"auth_base_url": "http://json/api/auth",
		"users_base_url": "http://json/api/users",
		"profile": "from-json",
		"request_timeout": "5s"
	}`), 0o600))

	t.Setenv("HOTELBOOK_PROFILE", "from-env")
	t.Setenv("HOTELBOOK_TOKEN_STORE", "memory")

	cfg, err := LoadConfig([]string{"-c", jsonPath, "-store", "redis", "-redis", "cache:6380"})
	require.NoError(t, err)

	want := defaults()
	want.AuthBaseURL = "http://json/api/auth"
	want.UsersBaseURL = "http://json/api/users"
	want.Profile = "from-env"
	want.RequestTimeout = 5 * time.Second
	want.TokenStore = StoreRedis
	want.RedisAddr = "cache:6380"

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"HOTELBOOK_DB=/tmp/dotenv.db\nHOTELBOOK_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("HOTELBOOK_DB") })
	t.Setenv("HOTELBOOK_LOG_LEVEL", "error")

	cfg, err := LoadConfig([]string{"-env", envFile})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dotenv.db", cfg.DatabasePath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_MissingExplicitEnvFile(t *testing.T) {
	_, err := LoadConfig([]string{"-env", filepath.Join(t.TempDir(), "absent.env")})
	require.Error(t, err)
}

func TestLoadConfig_EnvDuration(t *testing.T) {
	t.Setenv("HOTELBOOK_TIMEOUT", "2m")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown store", args: []string{"-store", "etcd"}},
		{name: "zero timeout", args: []string{"-timeout", "0s"}},
		{name: "bad timeout", args: []string{"-timeout", "soon"}},
		{name: "unknown log format", args: []string{"-log", "xml"}},
		{name: "empty profile", args: []string{"-profile="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}

func TestValidate_JoinsAllProblems(t *testing.T) {
	c := &Config{}
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "auth base URL")
	assert.Contains(t, err.Error(), "token store")
	assert.Contains(t, err.Error(), "log format")
}
