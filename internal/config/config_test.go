package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestNewConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, ModeKeyword, cfg.ParsingMode)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, 20*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "dispatch.requests", cfg.NATSSubject)
	assert.True(t, cfg.MetricsEnabled)
}

func TestNewConfigLLMRequiresKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PARSING_MODE", "llm")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ModeLLM, cfg.ParsingMode)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"mode", Config{ParsingMode: "REGEX", StorageDriver: StorageNone, Timezone: "UTC"}},
		{"provider", Config{ParsingMode: ModeLLM, LLMProvider: "gemini", StorageDriver: StorageNone, Timezone: "UTC"}},
		{"storage", Config{ParsingMode: ModeKeyword, StorageDriver: "mysql", Timezone: "UTC"}},
		{"timezone", Config{ParsingMode: ModeKeyword, StorageDriver: StorageNone, Timezone: "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{
		PostgresUser: "u", PostgresPassword: "p", PostgresHost: "db",
		PostgresPort: 5433, PostgresDatabase: "dispatch", PostgresSSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5433/dispatch?sslmode=disable", cfg.PostgresDSN())
}
