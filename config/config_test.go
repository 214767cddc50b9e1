package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.TMDBLanguage != "de-DE" {
		t.Errorf("TMDBLanguage = %q, want de-DE", cfg.TMDBLanguage)
	}
	if cfg.MetadataCacheTTL != 12*time.Hour {
		t.Errorf("MetadataCacheTTL = %v, want 12h", cfg.MetadataCacheTTL)
	}
	if cfg.QueryCacheTTL != 10*time.Minute {
		t.Errorf("QueryCacheTTL = %v, want 10m", cfg.QueryCacheTTL)
	}
	if cfg.MaxEnrichTitles != 12 {
		t.Errorf("MaxEnrichTitles = %d, want 12", cfg.MaxEnrichTitles)
	}
	if cfg.MinRealDays != 2 {
		t.Errorf("MinRealDays = %d, want 2", cfg.MinRealDays)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8099")
	t.Setenv("SERPAPI_KEY", "sk-test")
	t.Setenv("QUERY_CACHE_TTL_MINUTES", "5")
	t.Setenv("MIN_REAL_DAYS", "3")

	cfg := Load()

	if cfg.Port != "8099" {
		t.Errorf("Port = %q, want 8099", cfg.Port)
	}
	if cfg.SerpAPIKey != "sk-test" {
		t.Errorf("SerpAPIKey = %q", cfg.SerpAPIKey)
	}
	if cfg.QueryCacheTTL != 5*time.Minute {
		t.Errorf("QueryCacheTTL = %v, want 5m", cfg.QueryCacheTTL)
	}
	if cfg.MinRealDays != 3 {
		t.Errorf("MinRealDays = %d, want 3", cfg.MinRealDays)
	}
}

func TestGetEnvIntMalformed(t *testing.T) {
	t.Setenv("MAX_ENRICH_TITLES", "viele")
	t.Setenv("MIN_REAL_DAYS", "-1")

	cfg := Load()

	if cfg.MaxEnrichTitles != 12 {
		t.Errorf("MaxEnrichTitles = %d, want fallback 12", cfg.MaxEnrichTitles)
	}
	if cfg.MinRealDays != 2 {
		t.Errorf("MinRealDays = %d, want fallback 2", cfg.MinRealDays)
	}
}
