package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port        string
	DatabaseURL string

	// LogMode acepta "production" (JSON) o "development" (consola).
	LogMode string
	LogFile string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// RateLimitRPS en cero deshabilita el rate limiting por cliente.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load lee variables de entorno y valida lo mínimo indispensable.
func Load() (Config, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	logMode := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_MODE")))
	switch logMode {
	case "":
		logMode = "development"
	case "development", "production":
	default:
		return Config{}, fmt.Errorf("invalid LOG_MODE %q: expected development or production", logMode)
	}

	requestTimeout, err := durationFromEnv("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := durationFromEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	rateLimitRPS, err := floatFromEnv("RATE_LIMIT_RPS", 0)
	if err != nil {
		return Config{}, err
	}
	rateLimitBurst, err := intFromEnv("RATE_LIMIT_BURST", 10)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:            port,
		DatabaseURL:     databaseURL,
		LogMode:         logMode,
		LogFile:         strings.TrimSpace(os.Getenv("LOG_FILE")),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
		RateLimitRPS:    rateLimitRPS,
		RateLimitBurst:  rateLimitBurst,
	}, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive duration like 10s", key, value)
	}
	return duration, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a non-negative number", key, value)
	}
	return number, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	number, err := strconv.Atoi(value)
	if err != nil || number < 1 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive integer", key, value)
	}
	return number, nil
}
