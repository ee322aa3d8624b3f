// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything needed to build the index and answer
// questions.
type Config struct {
	// Provider selects the embedding backend: "openai" or "gemini".
	Provider     string
	OpenAIAPIKey string
	GeminiAPIKey string

	DocPath        string
	EmbeddingModel string
	QAModel        string

	TopK             int
	MaxContextChars  int
	ChunkOverlap     int
	EmbedConcurrency int

	CachePath string
}

// Load reads configuration from the environment, after loading a .env
// file when one is present. The OpenAI key is always required since
// answer generation runs on the OpenAI chat API; the Gemini key only
// when Gemini is the embedding provider.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:       strings.ToLower(getenv("EMBEDDING_PROVIDER", "openai")),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DocPath:        getenv("DOC_PATH", "docs/project.md"),
		EmbeddingModel: getenv("EMBEDDING_MODEL", "text-embedding-3-large"),
		QAModel:        getenv("QA_MODEL", "gpt-4o"),
		CachePath:      getenv("EMBEDDINGS_CACHE", "data/embeddings.idx"),
	}

	var err error
	if cfg.TopK, err = getenvInt("TOP_K", 4); err != nil {
		return nil, err
	}
	if cfg.MaxContextChars, err = getenvInt("MAX_CONTEXT_CHARS", 1200); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getenvInt("CHUNK_OVERLAP", 150); err != nil {
		return nil, err
	}
	if cfg.EmbedConcurrency, err = getenvInt("EMBED_CONCURRENCY", 8); err != nil {
		return nil, err
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch cfg.Provider {
	case "openai":
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when EMBEDDING_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be openai or gemini, got %q", cfg.Provider)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be positive")
	}
	if cfg.MaxContextChars <= 0 {
		return nil, fmt.Errorf("MAX_CONTEXT_CHARS must be positive")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
