package config

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 2*time.Second, cfg.FeedInterval)
	assert.Equal(t, 5*time.Minute, cfg.HourlyFeedInterval)
	assert.Equal(t, 3*time.Second, cfg.SSERetry)
	assert.Equal(t, "@every 1m", cfg.StatusSweepSchedule)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	assert.Empty(t, cfg.AdminEmails)
}

func TestParse_EnvVars(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE", "memory")
	t.Setenv("FEED_INTERVAL", "500ms")
	t.Setenv("ADMIN_EMAILS", "a@example.com, b@example.com,,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PASSWORD", "pw")

	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 500*time.Millisecond, cfg.FeedInterval)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AdminEmails)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "postgres://postgres:pw@db:5432/election?sslmode=disable", cfg.Postgres.DSN())
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("FEED_INTERVAL", "10s")

	cfg, err := Parse([]string{"-port", "7000", "-feed-interval", "1s", "-storage", "memory"})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, time.Second, cfg.FeedInterval)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad duration env", map[string]string{"SSE_RETRY": "soon"}, nil},
		{"unknown storage", nil, []string{"-storage", "sqlite"}},
		{"zero interval", nil, []string{"-feed-interval", "0s"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, nil},
		{"bad samesite", nil, []string{"-cookie-samesite", "sometimes"}},
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParse_JWTSecretFromFlag(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Parse(nil)
	require.EqualError(t, err, "JWT_SECRET must be set")

	cfg, err := Parse([]string{"-jwt-secret", "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.JWTSecret)
}
