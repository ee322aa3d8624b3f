package embedder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency bounds parallel provider calls during a batch
	// so provider rate limits are respected.
	DefaultConcurrency = 8

	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// EmbedAll embeds every text using at most concurrency parallel provider
// calls. Results come back in input order: row i is the embedding of
// texts[i]. The first unrecoverable failure cancels the remaining calls
// and fails the whole batch. Transient failures (rate limits, server
// errors, network timeouts) are retried with a short doubling backoff
// before giving up.
func EmbedAll(ctx context.Context, p Provider, texts []string, concurrency int) ([][]float32, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([][]float32, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, text := range texts {
		g.Go(func() error {
			vec, err := embedWithRetry(ctx, p, text)
			if err != nil {
				return fmt.Errorf("embedding chunk %d: %w", i, err)
			}
			results[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func embedWithRetry(ctx context.Context, p Provider, text string) ([]float32, error) {
	backoff := initialBackoff
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		var vec []float32
		vec, err = p.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		if !isTransient(err) {
			return nil, err
		}
	}
	return nil, err
}

// isTransient reports whether an embedding call failed in a way worth
// retrying.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
