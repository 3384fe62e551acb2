package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBPath     string
	UploadsDir string

	// comma separated origin allow-list; "*" allows everything
	CORSOrigins []string

	SessionSecret   string
	SessionTTLHours int

	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
	AfterLoginURL      string

	OTLPEndpoint string
	MaxBodyBytes int64
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8000),

		DBPath:     getEnv("DB_PATH", "data.db"),
		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),

		SessionSecret:   getEnv("SESSION_SECRET", "dev-secret-change-me"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24*7),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("OAUTH_REDIRECT_URL", "http://localhost:8000/api/auth/callback"),
		AfterLoginURL:      getEnv("FRONTEND_AFTER_LOGIN", "/"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 32<<20)),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		out = append(out, "*")
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)

			return fallback
		}

		return num
	}
	return fallback
}
