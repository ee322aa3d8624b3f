package docrag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/docrag/docrag/pkg/chunker"
	"github.com/docrag/docrag/pkg/embedder"
	"github.com/docrag/docrag/pkg/loader"
)

// Chunking defaults carried over from the original deployment.
const (
	DefaultMaxChars = 1200
	DefaultOverlap  = 150
)

// BuildParams configures index construction.
type BuildParams struct {
	// DocPath is the source document to index.
	DocPath string
	// CachePath is where the serialized index lives. Empty disables
	// caching.
	CachePath string
	// MaxChars bounds chunk size; Overlap is carried between chunks.
	MaxChars int
	Overlap  int
	// Concurrency bounds parallel embedding calls during a rebuild.
	Concurrency int
	Logger      *zap.Logger
}

// BuildOrLoad returns the embedding index for the document at
// params.DocPath, reusing the on-disk cache when its (document hash,
// model) key matches the current inputs and rebuilding otherwise. A
// rebuild embeds every chunk through the provider in document order;
// nothing is persisted unless the whole build succeeds.
func BuildOrLoad(ctx context.Context, params BuildParams, provider embedder.Provider) (*Index, error) {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.MaxChars <= 0 {
		params.MaxChars = DefaultMaxChars
	}
	if params.Overlap <= 0 {
		params.Overlap = DefaultOverlap
	}

	paragraphs, err := loader.Paragraphs(params.DocPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, params.DocPath)
		}
		return nil, err
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, params.DocPath)
	}

	chunks, err := chunker.Split(paragraphs, params.MaxChars, params.Overlap)
	if err != nil {
		return nil, err
	}

	docHash := hashText(strings.Join(paragraphs, "\n"))
	model := provider.ModelName()

	if params.CachePath != "" {
		cached, err := LoadCache(params.CachePath, docHash, model)
		if err != nil {
			logger.Warn("failed to load embedding cache, rebuilding",
				zap.String("path", params.CachePath), zap.Error(err))
		} else if cached != nil {
			logger.Info("loaded cached embeddings",
				zap.String("path", params.CachePath), zap.Int("chunks", cached.Len()))
			return cached, nil
		}
	}

	logger.Info("no valid cache, building embeddings",
		zap.String("doc", params.DocPath),
		zap.String("model", model),
		zap.Int("chunks", len(chunks)))

	embeddings, err := embedder.EmbedAll(ctx, provider, chunks, params.Concurrency)
	if err != nil {
		return nil, err
	}

	ix, err := New(chunks, embeddings, Meta{DocHash: docHash, Model: model, Source: params.DocPath})
	if err != nil {
		return nil, err
	}

	if params.CachePath != "" {
		if err := SaveCache(params.CachePath, ix); err != nil {
			return nil, fmt.Errorf("saving embedding cache: %w", err)
		}
		logger.Info("saved embedding cache", zap.String("path", params.CachePath))
	}
	return ix, nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
