package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	NewsAPIKey     string
	NewsAPIBaseURL string
	NewsAPITimeout int // seconds
	NewsLanguage   string
	NewsSortBy     string

	GeminiAPIKey   string
	GeminiBaseURL  string
	GeminiModel    string
	EmbeddingModel string
	GeminiTimeout  int // seconds

	CacheDir         string
	ChatTokenBudget  int
	ChatSimilarLimit int

	IngestTopics     []string
	IngestCountry    string
	IngestCategories []string
	IngestInterval   int // minutes, for the scheduled worker
}

// Load reads configuration from the environment, after loading a .env file if
// one is present in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "news-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "news_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "news_password"),
		DBName:     getEnv("DB_NAME", "news_db"),

		NewsAPIKey:     getSecret("NEWS_API_KEY", "NEWS_API_KEY_FILE", ""),
		NewsAPIBaseURL: getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2"),
		NewsAPITimeout: getEnvInt("NEWS_API_TIMEOUT", 15),
		NewsLanguage:   getEnv("NEWS_LANGUAGE", "en"),
		NewsSortBy:     getEnv("NEWS_SORT_BY", "publishedAt"),

		GeminiAPIKey:   getSecret("GEMINI_API_KEY", "GEMINI_API_KEY_FILE", ""),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		GeminiTimeout:  getEnvInt("GEMINI_TIMEOUT", 60),

		CacheDir:         getEnv("HEADLINES_CACHE_DIR", "cache"),
		ChatTokenBudget:  getEnvInt("CHAT_TOKEN_BUDGET", 1000000),
		ChatSimilarLimit: getEnvInt("CHAT_SIMILAR_LIMIT", 20),

		IngestTopics:     getEnvList("INGEST_TOPICS", nil),
		IngestCountry:    getEnv("INGEST_COUNTRY", "us"),
		IngestCategories: getEnvList("INGEST_CATEGORIES", nil),
		IngestInterval:   getEnvInt("INGEST_INTERVAL_MINUTES", 60),
	}
}

// RestrictedMode reports whether the deployment disallows local writes; the
// headline cache must then stay in memory.
func (c *Config) RestrictedMode() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
