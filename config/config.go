package config

import (
	"os"
	"time"
)

// App captures process-level configuration.
type App struct {
	DatabaseURL string
	BlobBaseURL string
	TokenSecret string
	TokenTTL    time.Duration
}

// FromEnv builds an App config from environment variables so main stays lean.
func FromEnv() App {
	blobBase := os.Getenv("BLOB_BASE_URL")
	if blobBase == "" {
		blobBase = "https://storage.psiconnect.local"
	}

	ttl := time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return App{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BlobBaseURL: blobBase,
		TokenSecret: os.Getenv("TOKEN_SECRET"),
		TokenTTL:    ttl,
	}
}
