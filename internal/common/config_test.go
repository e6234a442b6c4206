package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := LoadConfig()
	cfg.Database.SQLitePath = "/tmp/depobrain.db"
	cfg.LLM.APIKey = "test-key"
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, 800, cfg.Chunking.Size)
	assert.Equal(t, 120, cfg.Chunking.Overlap)
	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, 4, cfg.OCR.Workers)
	assert.Equal(t, "eng", cfg.OCR.TesseractLang)
	assert.Equal(t, "https://api.anthropic.com", cfg.LLM.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "default", cfg.Source.CollectionID)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "60")
	t.Setenv("OCR_WORKERS", "8")
	t.Setenv("ANTHROPIC_TIMEOUT", "90s")
	t.Setenv("COLLECTION_ID", "mdl-2023")

	cfg := LoadConfig()
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 60, cfg.Chunking.Overlap)
	assert.Equal(t, 8, cfg.OCR.Workers)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "mdl-2023", cfg.Source.CollectionID)
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("ANTHROPIC_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 800, cfg.Chunking.Size)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Database.SQLitePath = ""
	cfg.Database.DSN = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	cfg = validConfig()
	cfg.LLM.APIKey = ""
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Chunking.Size = 0
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Chunking.Overlap = cfg.Chunking.Size
	require.Error(t, cfg.Validate())
}
