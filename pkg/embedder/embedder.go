// Package embedder provides embedding providers and the concurrent batch
// embedding used during index construction.
package embedder

import (
	"context"
	"fmt"
)

// Provider produces a fixed-dimension embedding vector for a piece of
// text. Implementations must be safe for concurrent use.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// ProviderError wraps a failure from an embedding provider: network,
// auth, rate limit or a malformed response.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
