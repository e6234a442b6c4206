package common

import (
	"os"
	"strconv"
	"time"

	"github.com/depobrain/depobrain/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Chunking ChunkingConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	SQLitePath       string // non-empty selects the embedded store
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// SourceConfig locates the transcript corpus on disk.
type SourceConfig struct {
	RootDir      string
	CollectionID string
}

// OCRConfig holds the external binary configuration for the OCR fallback.
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	Workers       int
}

// LLMConfig holds reasoning-service configuration.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// ChunkingConfig bounds segment sizes.
type ChunkingConfig struct {
	Size    int
	Overlap int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Source: SourceConfig{
			RootDir:      getEnv("SOURCE_DIR", ""),
			CollectionID: getEnv("COLLECTION_ID", constants.DefaultCollectionID),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 200),
			Workers:       getEnvAsInt("OCR_WORKERS", 4),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			APIKey:      getEnv("ANTHROPIC_API_KEY", ""),
			Model:       getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
			MaxTokens:   getEnvAsInt("ANTHROPIC_MAX_TOKENS", 1024),
			Temperature: getEnvAsFloat32("ANTHROPIC_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("ANTHROPIC_TIMEOUT", 60*time.Second),
		},
		Chunking: ChunkingConfig{
			Size:    getEnvAsInt("CHUNK_SIZE", 800),
			Overlap: getEnvAsInt("CHUNK_OVERLAP", 120),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

// Validate checks the loaded configuration before any pipeline work starts.
func (c *Config) Validate() error {
	if c.Database.DSN == "" && c.Database.SQLitePath == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL or SQLITE_PATH is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "ANTHROPIC_API_KEY is required", ErrInvalidInput)
	}
	if c.Chunking.Size <= 0 {
		return NewAppError("CONFIG_ERROR", "CHUNK_SIZE must be positive", ErrInvalidInput)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return NewAppError("CONFIG_ERROR", "CHUNK_OVERLAP must be in [0, CHUNK_SIZE)", ErrInvalidInput)
	}
	return nil
}
