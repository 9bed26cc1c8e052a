package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, 16384, cfg.LLM.MaxTokens)
	assert.Zero(t, cfg.LLM.Timeout())
	assert.Equal(t, 3, cfg.Queue.MaxRetries)
	assert.Equal(t, 900, cfg.Queue.RunTimeoutSecs)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "tradedocs:result:", cfg.Cache.Prefix)
	assert.Equal(t, 168*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, int64(32), cfg.S3.MaxFileSizeMB)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRADEDOCS_LLM_PROVIDER", "openai")
	t.Setenv("TRADEDOCS_LLM_API_KEY", "sk-test")
	t.Setenv("TRADEDOCS_LLM_DEFAULT_MODEL", "gpt-4o")
	t.Setenv("TRADEDOCS_LLM_TIMEOUT_SECS", "30")
	t.Setenv("TRADEDOCS_CACHE_ENABLED", "true")
	t.Setenv("TRADEDOCS_CACHE_TTL_HOURS", "2")
	t.Setenv("TRADEDOCS_QUEUE_CONCURRENCY", "8")
	t.Setenv("TRADEDOCS_CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, 8, cfg.Queue.Concurrency)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_ExplicitPortWinsOverPlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TRADEDOCS_SERVER_PORT", ":7070")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLLMConfig_Timeout(t *testing.T) {
	assert.Zero(t, (&config.LLMConfig{}).Timeout())
	assert.Zero(t, (&config.LLMConfig{TimeoutSecs: -5}).Timeout())
	assert.Equal(t, 45*time.Second, (&config.LLMConfig{TimeoutSecs: 45}).Timeout())
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", db.DSN())
}
