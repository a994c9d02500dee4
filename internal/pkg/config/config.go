package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr  string `env:"ADMIN_ADDR" envDefault:":9091"`

	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisURL          string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	PostgresURL       string `env:"POSTGRES_URL"`
	SnapshotKeyPrefix string `env:"SNAPSHOT_KEY_PREFIX" envDefault:"threat_monitor"`

	GroqAPIKey          string        `env:"GROQ_API_KEY"`
	GroqBaseURL         string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel           string        `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	ClassifyTimeout     time.Duration `env:"CLASSIFY_TIMEOUT" envDefault:"30s"`
	ClassifyTemperature float64       `env:"CLASSIFY_TEMPERATURE" envDefault:"0.7"`

	RateLimitRPS    float64 `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst  int     `env:"RATE_LIMIT_BURST" envDefault:"200"`
	MaxEventSize    int64   `env:"MAX_EVENT_SIZE_BYTES" envDefault:"1048576"` // 1MB
	RedactionFields string  `env:"REDACTION_FIELDS" envDefault:"password,token,secret,api_key"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case BackendRedis, BackendPostgres:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q: must be %q or %q", cfg.StorageBackend, BackendRedis, BackendPostgres)
	}
	if cfg.StorageBackend == BackendPostgres && cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required when STORAGE_BACKEND is %q", BackendPostgres)
	}

	return cfg, nil
}
