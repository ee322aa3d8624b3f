// Command generate-index builds (or refreshes) the embedding cache for
// the configured document without starting the ask loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/docrag/docrag/pkg/config"
	"github.com/docrag/docrag/pkg/docrag"
	"github.com/docrag/docrag/pkg/embedder"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logger.Fatal("initializing embedding provider", zap.Error(err))
	}

	index, err := docrag.BuildOrLoad(ctx, docrag.BuildParams{
		DocPath:     cfg.DocPath,
		CachePath:   cfg.CachePath,
		MaxChars:    cfg.MaxContextChars,
		Overlap:     cfg.ChunkOverlap,
		Concurrency: cfg.EmbedConcurrency,
		Logger:      logger,
	}, provider)
	if err != nil {
		logger.Fatal("building index", zap.Error(err))
	}

	fmt.Printf("Index ready: %d chunks, dim=%d, model=%s\n",
		index.Len(), index.Dimension(), index.Meta().Model)
	fmt.Printf("Cache: %s\n", cfg.CachePath)
}

func newProvider(ctx context.Context, cfg *config.Config) (embedder.Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return embedder.NewGemini(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	default:
		return embedder.NewOpenAI(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}
