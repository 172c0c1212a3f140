package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Simulated backend
	SimulatedDelay time.Duration // how long every backend call takes
	DemoEmail      string        // the only credential pair Login accepts
	DemoPassword   string

	// Auth pages
	ResetRedirectDelay time.Duration // success banner time before /login?reset=1
	PageInstanceTTL    time.Duration // idle time before a page instance is evicted
	PageInstanceLimit  int           // most page instances mounted at once
	AppName            string
	CompanyName        string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		SimulatedDelay: getEnvDuration("SIMULATED_DELAY", 1500*time.Millisecond),
		DemoEmail:      getEnv("DEMO_EMAIL", "user@example.com"),
		DemoPassword:   getEnv("DEMO_PASSWORD", "password123"),

		ResetRedirectDelay: getEnvDuration("RESET_REDIRECT_DELAY", 3*time.Second),
		PageInstanceTTL:    getEnvDuration("PAGE_INSTANCE_TTL", 30*time.Minute),
		PageInstanceLimit:  getEnvInt("PAGE_INSTANCE_LIMIT", 10000),
		AppName:            getEnv("APP_NAME", "AppLogo"),
		CompanyName:        getEnv("COMPANY_NAME", "Your Company"),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got: %d", cfg.Port)
	}
	if cfg.SimulatedDelay < 0 {
		return nil, fmt.Errorf("SIMULATED_DELAY must not be negative, got: %s", cfg.SimulatedDelay)
	}
	if cfg.ResetRedirectDelay < 0 {
		return nil, fmt.Errorf("RESET_REDIRECT_DELAY must not be negative, got: %s", cfg.ResetRedirectDelay)
	}
	if cfg.PageInstanceTTL < time.Second {
		return nil, fmt.Errorf("PAGE_INSTANCE_TTL must be at least 1s, got: %s", cfg.PageInstanceTTL)
	}
	if cfg.PageInstanceLimit <= 0 {
		return nil, fmt.Errorf("PAGE_INSTANCE_LIMIT must be positive, got: %d", cfg.PageInstanceLimit)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
