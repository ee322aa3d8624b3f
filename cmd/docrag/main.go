package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/docrag/docrag/pkg/config"
	"github.com/docrag/docrag/pkg/docrag"
	"github.com/docrag/docrag/pkg/embedder"
	"github.com/docrag/docrag/pkg/qa"
)

func main() {
	top := flag.Int("top", 0, "number of context chunks to retrieve (overrides TOP_K)")
	question := flag.String("q", "", "ask a single question and exit")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *top > 0 {
		cfg.TopK = *top
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

	// Repeated questions skip the provider round-trip.
	queryProvider := embedder.WithLRU(provider, 256, time.Hour)
	engine := qa.New(index, queryProvider, openai.NewClient(cfg.OpenAIAPIKey), qa.Config{
		ChatModel: cfg.QAModel,
		TopK:      cfg.TopK,
		Logger:    logger,
	})

	if *question != "" {
		answer, err := engine.Answer(ctx, *question)
		if err != nil {
			logger.Warn("failed to answer", zap.Error(err))
			fmt.Fprintln(os.Stderr, "Sorry, I could not answer that right now. Please try again.")
			os.Exit(1)
		}
		fmt.Println(answer)
		return
	}

	fmt.Printf("Indexed %s (%d chunks). Ask a question, Ctrl-D to quit.\n", cfg.DocPath, index.Len())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		answer, err := engine.Answer(ctx, q)
		if err != nil {
			logger.Warn("failed to answer", zap.Error(err))
			fmt.Println("Sorry, I could not answer that right now. Please try again.")
			continue
		}
		fmt.Println(answer)
		fmt.Println()
	}
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
