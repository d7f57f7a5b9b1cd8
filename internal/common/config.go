package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	UseAI      bool
	Model      ModelConfig
	History    HistoryConfig
	Export     ExportConfig
	Extraction ExtractionConfig
	LogLevel   string
}

// ModelConfig holds settings for the optional model tier.
type ModelConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// HistoryConfig selects and configures the corrections history backend.
type HistoryConfig struct {
	Backend string // file | sqlite | postgres
	Path    string // file path (file/sqlite backends)
	DSN     string // postgres DSN

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	Path  string
	Sheet string
}

// ExtractionConfig holds pipeline thresholds.
type ExtractionConfig struct {
	MinConfidence float32
	MinYear       int
	MaxYear       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		UseAI: getEnvAsBool("USE_AI", false),
		Model: ModelConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 20*time.Second),
		},
		History: HistoryConfig{
			Backend:         strings.ToLower(getEnv("HISTORY_BACKEND", "file")),
			Path:            getEnv("HISTORY_PATH", "ai_corrections_history.jsonl"),
			DSN:             getEnv("HISTORY_DB_URL", ""),
			MaxConns:        getEnvAsInt32("HISTORY_DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("HISTORY_DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("HISTORY_DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("HISTORY_DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("HISTORY_DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Export: ExportConfig{
			Path:  getEnv("EXPORT_PATH", "atestados.xlsx"),
			Sheet: getEnv("EXPORT_SHEET", "Atestados"),
		},
		Extraction: ExtractionConfig{
			MinConfidence: getEnvAsFloat32("MIN_CONFIDENCE", 0.60),
			MinYear:       getEnvAsInt("DATE_MIN_YEAR", 2000),
			MaxYear:       getEnvAsInt("DATE_MAX_YEAR", 2026),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.History.Backend {
	case "file", "sqlite":
		if c.History.Path == "" {
			return NewAppError("CONFIG_ERROR", "HISTORY_PATH is required", ErrInvalidInput)
		}
	case "postgres":
		if c.History.DSN == "" {
			return NewAppError("CONFIG_ERROR", "HISTORY_DB_URL is required for postgres backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "HISTORY_BACKEND must be file, sqlite or postgres", ErrInvalidInput)
	}
	// USE_AI with no API key is not a config error: the model tier is
	// skipped at runtime instead.
	if c.Extraction.MinYear > c.Extraction.MaxYear {
		return NewAppError("CONFIG_ERROR", "DATE_MIN_YEAR must not exceed DATE_MAX_YEAR", ErrInvalidInput)
	}
	return nil
}
