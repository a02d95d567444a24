package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("EMBED_DIM", "")
	t.Setenv("SEARCH_TOP_K", "")
	t.Setenv("OLLAMA_EMBED_MODEL", "")
	t.Setenv("NATS_STATUS_SUBJECT", "")
	t.Setenv("NATS_CORPUS_SUBJECT", "")

	cfg := Load()
	if cfg.EmbedDim != 384 {
		t.Fatalf("expected default embed dim 384, got %d", cfg.EmbedDim)
	}
	if cfg.SearchTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.SearchTopK)
	}
	if cfg.OllamaEmbedModel != "all-minilm" {
		t.Fatalf("expected default embed model all-minilm, got %q", cfg.OllamaEmbedModel)
	}
	if cfg.NATSStatusSubject != "complaints.status" {
		t.Fatalf("expected default status subject, got %q", cfg.NATSStatusSubject)
	}
	if cfg.NATSCorpusSubject != "corpus.rebuilt" {
		t.Fatalf("expected default corpus subject, got %q", cfg.NATSCorpusSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("EMBED_DIM", "768")
	t.Setenv("SEARCH_TOP_K", "10")
	t.Setenv("SUGGEST_SECTIONS_ON_SUBMIT", "false")
	t.Setenv("API_RATE_LIMIT_RPS", "5")
	t.Setenv("API_MAX_CONCURRENT", "8")

	cfg := Load()
	if cfg.EmbedDim != 768 {
		t.Fatalf("expected embed dim 768, got %d", cfg.EmbedDim)
	}
	if cfg.SearchTopK != 10 {
		t.Fatalf("expected top k 10, got %d", cfg.SearchTopK)
	}
	if cfg.SuggestOnSubmit {
		t.Fatalf("expected suggestion flag off")
	}
	if cfg.APIRateLimitRPS != 5 || cfg.APIMaxConcurrent != 8 {
		t.Fatalf("expected traffic overrides, got rps=%d max=%d", cfg.APIRateLimitRPS, cfg.APIMaxConcurrent)
	}
}

func TestLoadFallsBackOnUnparsableInt(t *testing.T) {
	t.Setenv("EMBED_DIM", "not-a-number")

	cfg := Load()
	if cfg.EmbedDim != 384 {
		t.Fatalf("expected fallback embed dim 384, got %d", cfg.EmbedDim)
	}
}
