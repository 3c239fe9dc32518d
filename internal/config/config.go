// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Parsing modes.
const (
	ModeKeyword = "KEYWORD"
	ModeLLM     = "LLM"
)

// Storage drivers.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageNone     = "none"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENV" envDefault:"development"`
	Timezone    string `env:"TIMEZONE" envDefault:"Asia/Seoul"`

	KeywordsPath string `env:"KEYWORDS_PATH"` // YAML keyword table; empty uses the built-in one.

	ParsingMode     string        `env:"PARSING_MODE" envDefault:"KEYWORD"`
	LLMProvider     string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMModel        string        `env:"LLM_MODEL"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"20s"`

	HTTPPort int      `env:"HTTP_PORT" envDefault:"8080"`
	APIKeys  []string `env:"API_KEYS" envSeparator:","` // Empty disables API key auth.

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"dispatch.db"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"dispatch"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DATABASE" envDefault:"dispatch"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	NATSURL           string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSSubject       string `env:"NATS_SUBJECT" envDefault:"dispatch.requests"`
	NATSQueue         string `env:"NATS_QUEUE" envDefault:"dispatch-parser"`
	NATSStatusSubject string `env:"NATS_STATUS_SUBJECT" envDefault:"dispatch.status"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// NewConfig reads an optional .env file and then the environment.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and provider credentials.
func (c *Config) Validate() error {
	c.ParsingMode = strings.ToUpper(strings.TrimSpace(c.ParsingMode))
	switch c.ParsingMode {
	case ModeKeyword:
	case ModeLLM:
		switch c.LLMProvider {
		case "openai":
			if c.OpenAIAPIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
			}
		case "anthropic":
			if c.AnthropicAPIKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
			}
		default:
			return fmt.Errorf("LLM_PROVIDER must be 'openai' or 'anthropic', got %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("PARSING_MODE must be %s or %s, got %q", ModeKeyword, ModeLLM, c.ParsingMode)
	}

	switch c.StorageDriver {
	case StorageSQLite, StoragePostgres, StorageNone:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be sqlite, postgres or none, got %q", c.StorageDriver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// PostgresDSN builds a connection string for pgx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort,
		c.PostgresDatabase, c.PostgresSSLMode)
}
