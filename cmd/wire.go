package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/clubstack/crm-cli/internal/adapters/api"
	tomlstore "github.com/clubstack/crm-cli/internal/adapters/tokenstore/toml"
	"github.com/clubstack/crm-cli/internal/application"
	"github.com/clubstack/crm-cli/internal/ports"
)

const defaultBaseURL = "https://api.clubstack.example"

type app struct {
	sessions *application.SessionService
	guard    *application.Guard
	exports  *application.ExportService
	chat     *application.ChatService
	records  ports.RecordsAPI
	logger   zerolog.Logger
	now      func() time.Time
}

func wireApp() (*app, error) {
	// A missing .env is the normal case; only explicit settings matter.
	_ = godotenv.Load()

	logger := newLogger()

	cfg := viper.New()
	if path := os.Getenv("CRM_SESSION_PATH"); path != "" {
		cfg.Set("session.path", path)
	}

	store, err := tomlstore.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire token store: %w", err)
	}

	client := &api.Client{
		BaseURL:        envOrDefault("CRM_API_BASE_URL", defaultBaseURL),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: httpTimeout(),
		Logger:         logger,
	}

	clock := ports.SystemClock{}
	sessions := application.NewSessionService(client, store, clock, logger)

	return &app{
		sessions: sessions,
		guard:    application.NewGuard(sessions),
		exports:  application.NewExportService(client, sessions, clock, logger),
		chat:     application.NewChatService(client, sessions, clock),
		records:  client,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(envOrDefault("CRM_LOG_LEVEL", "warn"))
	if err != nil {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func httpTimeout() time.Duration {
	raw := os.Getenv("CRM_HTTP_TIMEOUT")
	if raw == "" {
		return api.DefaultRequestTimeout
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		return api.DefaultRequestTimeout
	}
	return timeout
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
