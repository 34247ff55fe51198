package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	MEDIA_DIR       string
	MAX_MEDIA_BYTES int64

	// Timeout for fetching remote repository objects.
	MEDIA_FETCH_TIMEOUT time.Duration

	// Age after which an exhibit edit lock is reclaimable.
	EXHIBIT_LOCK_TIMEOUT time.Duration
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")

	// Google sign-in is optional; the local login flow works without it.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	MEDIA_DIR = getEnv("MEDIA_DIR", "./media")
	MAX_MEDIA_BYTES = getEnvInt64("MAX_MEDIA_BYTES", 512<<20)
	MEDIA_FETCH_TIMEOUT = time.Duration(getEnvInt64("MEDIA_FETCH_TIMEOUT_SECONDS", 30)) * time.Second
	EXHIBIT_LOCK_TIMEOUT = time.Duration(getEnvInt64("EXHIBIT_LOCK_TIMEOUT_MINUTES", 30)) * time.Minute
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %q", key, value)
	}
	return n
}
