package config

import (
	"testing"
	"time"
)

func TestLoadIncludesPipelineDefaults(t *testing.T) {
	t.Setenv("CHUNK_MAX_DOCS", "")
	t.Setenv("CHUNK_TOKEN_BUDGET", "")
	t.Setenv("REFERENCE_TTL", "")
	t.Setenv("BATCH_TIMEOUT", "")
	t.Setenv("ORACLE_MODEL", "")

	cfg := Load()
	if cfg.ChunkMaxDocs != 10 {
		t.Fatalf("expected default chunk max docs 10, got %d", cfg.ChunkMaxDocs)
	}
	if cfg.ChunkTokenBudget != 30000 {
		t.Fatalf("expected default chunk token budget 30000, got %d", cfg.ChunkTokenBudget)
	}
	if cfg.ReferenceTTL != 5*time.Minute {
		t.Fatalf("expected default reference ttl 5m, got %s", cfg.ReferenceTTL)
	}
	if cfg.BatchTimeout != 10*time.Minute {
		t.Fatalf("expected default batch timeout 10m, got %s", cfg.BatchTimeout)
	}
	if cfg.OracleModel != "claude-sonnet-4-20250514" {
		t.Fatalf("expected default oracle model, got %q", cfg.OracleModel)
	}
	if cfg.ExtractDocsPerCall != 5 {
		t.Fatalf("expected default extract docs per call 5, got %d", cfg.ExtractDocsPerCall)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CHUNK_MAX_DOCS", "4")
	t.Setenv("EXTRACT_DOCS_PER_CALL", "3")
	t.Setenv("REFERENCE_TTL", "90s")
	t.Setenv("BATCH_TIMEOUT", "3m")
	t.Setenv("ORACLE_FORCE_MOCK", "true")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.ChunkMaxDocs != 4 {
		t.Fatalf("expected chunk max docs 4, got %d", cfg.ChunkMaxDocs)
	}
	if cfg.ExtractDocsPerCall != 3 {
		t.Fatalf("expected extract docs per call 3, got %d", cfg.ExtractDocsPerCall)
	}
	if cfg.ReferenceTTL != 90*time.Second {
		t.Fatalf("expected reference ttl 90s, got %s", cfg.ReferenceTTL)
	}
	if cfg.BatchTimeout != 3*time.Minute {
		t.Fatalf("expected batch timeout 3m, got %s", cfg.BatchTimeout)
	}
	if !cfg.OracleForceMock {
		t.Fatal("expected oracle force mock enabled")
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit rps 2.5, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadFallsBackOnUnparseableValues(t *testing.T) {
	t.Setenv("CHUNK_MAX_DOCS", "many")
	t.Setenv("BATCH_TIMEOUT", "soon")
	t.Setenv("ORACLE_FORCE_MOCK", "maybe")

	cfg := Load()
	if cfg.ChunkMaxDocs != 10 {
		t.Fatalf("expected fallback chunk max docs 10, got %d", cfg.ChunkMaxDocs)
	}
	if cfg.BatchTimeout != 10*time.Minute {
		t.Fatalf("expected fallback batch timeout 10m, got %s", cfg.BatchTimeout)
	}
	if cfg.OracleForceMock {
		t.Fatal("expected fallback oracle force mock false")
	}
}
