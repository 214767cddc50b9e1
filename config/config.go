package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port string

	// API Keys
	SerpAPIKey string
	TMDBAPIKey string

	// Metadata
	TMDBLanguage     string
	MetadataCacheTTL time.Duration
	MaxEnrichTitles  int

	// Showtimes
	QueryCacheTTL time.Duration
	MinRealDays   int

	// Scraper
	CinedomURL string

	// Rate limiting
	RateLimitPerMinute int

	// Logging
	LogFile string
}

// Load reads configuration from the environment. Every value has a working
// default except the upstream API keys, which stay empty and degrade the
// matching features.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		SerpAPIKey: os.Getenv("SERPAPI_KEY"),
		TMDBAPIKey: os.Getenv("TMDB_KEY"),

		TMDBLanguage:     getEnv("TMDB_LANGUAGE", "de-DE"),
		MetadataCacheTTL: time.Duration(getEnvInt("METADATA_CACHE_TTL_HOURS", 12)) * time.Hour,
		MaxEnrichTitles:  getEnvInt("MAX_ENRICH_TITLES", 12),

		QueryCacheTTL: time.Duration(getEnvInt("QUERY_CACHE_TTL_MINUTES", 10)) * time.Minute,
		MinRealDays:   getEnvInt("MIN_REAL_DAYS", 2),

		CinedomURL: os.Getenv("CINEDOM_URL"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogFile: os.Getenv("LOG_FILE"),
	}
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt parses an integer environment variable, falling back on empty or
// malformed values.
func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
