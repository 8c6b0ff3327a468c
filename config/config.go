package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	LOG_LEVEL         string
	AUTOSAVE_INTERVAL time.Duration
	SAVE_TIMEOUT      time.Duration
	TEMPLATES_FILE    string

	SESSION_IDLE_TIMEOUT time.Duration

	RATE_LIMIT_RPS   float64
	RATE_LIMIT_BURST int
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		logrus.Info("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	AUTOSAVE_INTERVAL = getDuration("AUTOSAVE_INTERVAL", 30*time.Second)
	SAVE_TIMEOUT = getDuration("SAVE_TIMEOUT", 10*time.Second)
	TEMPLATES_FILE = getEnv("TEMPLATES_FILE", "")
	SESSION_IDLE_TIMEOUT = getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)

	RATE_LIMIT_RPS = getFloat("RATE_LIMIT_RPS", 10)
	RATE_LIMIT_BURST = getInt("RATE_LIMIT_BURST", 20)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getDuration accepts Go durations ("45s") or plain seconds ("45").
func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	logrus.Warnf("Invalid duration for %s=%q, using %s", key, v, fallback)
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		logrus.Warnf("Invalid number for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.Warnf("Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
