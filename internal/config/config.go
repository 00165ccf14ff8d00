// Package config loads process settings. Values come from a .env file and
// the environment, and command-line flags override both.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Config struct {
	Port     string
	Storage  string
	Postgres PostgresConfig

	JWTSecret       string
	GoogleClientID  string
	AdminEmails     []string
	AccessTokenTTL  time.Duration
	AuthRedirectURL string
	CookieDomain    string
	CookieSameSite  http.SameSite

	VoteHashSecret string

	FeedInterval        time.Duration
	HourlyFeedInterval  time.Duration
	SSERetry            time.Duration
	StatusSweepSchedule string
	ShutdownTimeout     time.Duration

	LogLevel slog.Level
}

// Load reads .env if present, then the environment, then args.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse(args)
}

// Parse builds a Config from the current environment and args without
// touching .env.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("election", flag.ContinueOnError)

	fs.StringVar(&cfg.Port, "port", env("PORT", "8080"), "HTTP port")
	fs.StringVar(&cfg.Storage, "storage", env("STORAGE", StoragePostgres), "storage backend (postgres or memory)")

	fs.StringVar(&cfg.Postgres.Host, "db-host", env("POSTGRES_HOST", "localhost"), "Postgres host")
	fs.StringVar(&cfg.Postgres.Port, "db-port", env("POSTGRES_PORT", "5432"), "Postgres port")
	fs.StringVar(&cfg.Postgres.User, "db-user", env("POSTGRES_USER", "postgres"), "Postgres user")
	fs.StringVar(&cfg.Postgres.Password, "db-password", env("POSTGRES_PASSWORD", ""), "Postgres password (prefer env)")
	fs.StringVar(&cfg.Postgres.DB, "db-name", env("POSTGRES_DB", "election"), "Postgres database")
	fs.StringVar(&cfg.Postgres.SSLMode, "db-sslmode", env("POSTGRES_SSLMODE", "disable"), "Postgres sslmode")

	fs.StringVar(&cfg.JWTSecret, "jwt-secret", env("JWT_SECRET", ""), "access token signing secret (prefer env)")
	fs.StringVar(&cfg.GoogleClientID, "google-client-id", env("GOOGLE_CLIENT_ID", ""), "Google OAuth client id")
	fs.StringVar(&cfg.AuthRedirectURL, "auth-redirect-url", env("AUTH_REDIRECT_URL", ""), "redirect after login")
	fs.StringVar(&cfg.CookieDomain, "cookie-domain", env("COOKIE_DOMAIN", ""), "access token cookie domain")
	fs.StringVar(&cfg.VoteHashSecret, "vote-hash-secret", env("VOTE_HASH_SECRET", ""), "key for has-voted candidate references (prefer env)")
	fs.StringVar(&cfg.StatusSweepSchedule, "status-sweep-schedule", env("STATUS_SWEEP_SCHEDULE", "@every 1m"), "cron spec of the election status sweep")

	adminEmails := fs.String("admin-emails", env("ADMIN_EMAILS", ""), "comma separated emails granted the admin role")
	sameSite := fs.String("cookie-samesite", env("COOKIE_SAMESITE", "lax"), "cookie SameSite (lax, strict, none)")
	logLevel := fs.String("log-level", env("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")

	durations := []struct {
		target *time.Duration
		flag   string
		env    string
		def    time.Duration
		usage  string
	}{
		{&cfg.AccessTokenTTL, "access-token-ttl", "ACCESS_TOKEN_TTL", 15 * time.Minute, "access token lifetime"},
		{&cfg.FeedInterval, "feed-interval", "FEED_INTERVAL", 2 * time.Second, "election feed tick"},
		{&cfg.HourlyFeedInterval, "hourly-feed-interval", "HOURLY_FEED_INTERVAL", 5 * time.Minute, "hourly feed tick"},
		{&cfg.SSERetry, "sse-retry", "SSE_RETRY", 3 * time.Second, "client reconnect delay advertised on streams"},
		{&cfg.ShutdownTimeout, "shutdown-timeout", "SHUTDOWN_TIMEOUT", 30 * time.Second, "graceful shutdown limit"},
	}
	for _, d := range durations {
		def, err := envDuration(d.env, d.def)
		if err != nil {
			return nil, err
		}
		fs.DurationVar(d.target, d.flag, def, d.usage)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.AdminEmails = splitList(*adminEmails)

	var err error
	if cfg.CookieSameSite, err = parseSameSite(*sameSite); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.FeedInterval <= 0 || c.HourlyFeedInterval <= 0 {
		return errors.New("feed intervals must be positive")
	}
	if c.SSERetry < 0 {
		return errors.New("SSE_RETRY must not be negative")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "lax", "":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("invalid cookie SameSite %q", s)
}
