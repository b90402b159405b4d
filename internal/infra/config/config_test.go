package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"ENV",
		"PORT",
		"NEWS_LANGUAGE",
		"NEWS_SORT_BY",
		"CHAT_TOKEN_BUDGET",
		"CHAT_SIMILAR_LIMIT",
		"HEADLINES_CACHE_DIR",
	}
	for _, key := range envVars {
		_ = os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "en", cfg.NewsLanguage)
	assert.Equal(t, "publishedAt", cfg.NewsSortBy)
	assert.Equal(t, 1000000, cfg.ChatTokenBudget, "trimming should be effectively disabled by default")
	assert.Equal(t, 20, cfg.ChatSimilarLimit)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.False(t, cfg.RestrictedMode())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_TOKEN_BUDGET", "4096")
	t.Setenv("INGEST_TOPICS", "artificial intelligence, climate change ,")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.True(t, cfg.RestrictedMode())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4096, cfg.ChatTokenBudget)
	assert.Equal(t, []string{"artificial intelligence", "climate change"}, cfg.IngestTopics)
}

func TestLoad_SecretFromFile(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "news_api_key")
	err := os.WriteFile(secretPath, []byte("key-from-file\n"), 0o600)
	assert.NoError(t, err)

	_ = os.Unsetenv("NEWS_API_KEY")
	t.Setenv("NEWS_API_KEY_FILE", secretPath)

	cfg := Load()

	assert.Equal(t, "key-from-file", cfg.NewsAPIKey)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("CHAT_SIMILAR_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 20, cfg.ChatSimilarLimit)
}
