package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Simulator SimulatorConfig
	Wizard    WizardConfig
	Gateway   GatewayConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	HubLogFilePath     string
	CorsAllowedOrigins string
	RedisURL           string
	TracingEnabled     bool
	OtlpEndpoint       string
}

type StorageConfig struct {
	Driver    string // "memory" or "redis"
	KeyPrefix string
	// Idle lifetime of per-browser wizards and per-workspace chat sessions in the host
	SessionTTL time.Duration
}

type SimulatorConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

type WizardConfig struct {
	// false reproduces the old behaviour where finished registrations leave step data behind
	ClearOnReady bool
}

type GatewayConfig struct {
	CheckoutBaseURL string
	LoginURL        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/hub.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			TracingEnabled:     getEnvAsBool("OTEL_ENABLED", false),
			OtlpEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", "memory"),
			KeyPrefix:  getEnv("STORAGE_KEY_PREFIX", "bidwizer"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 1*time.Hour),
		},
		Simulator: SimulatorConfig{
			MinDelay: getEnvAsDuration("STREAM_MIN_DELAY", 30*time.Millisecond),
			MaxDelay: getEnvAsDuration("STREAM_MAX_DELAY", 80*time.Millisecond),
		},
		Wizard: WizardConfig{
			ClearOnReady: getEnvAsBool("WIZARD_CLEAR_ON_READY", true),
		},
		Gateway: GatewayConfig{
			CheckoutBaseURL: getEnv("GATEWAY_CHECKOUT_URL", "http://localhost:3000/api/sandbox/checkout"),
			LoginURL:        getEnv("LOGIN_URL", "/login"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("50ms") or a bare integer of milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
