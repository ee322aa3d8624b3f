package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// WithLRU wraps a provider with an in-memory expirable LRU cache so
// repeated texts (typically user questions) do not hit the provider
// again. The cache key covers the model name, so switching models never
// reuses stale vectors.
func WithLRU(p Provider, size int, ttl time.Duration) Provider {
	if p == nil || size <= 0 || ttl <= 0 {
		return p
	}
	return &lruProvider{
		next:  p,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type lruProvider struct {
	next  Provider
	cache *expirable.LRU[string, []float32]
}

func (l *lruProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(l.next.ModelName(), text)
	if cached, ok := l.cache.Get(key); ok {
		return cloneVector(cached), nil
	}
	vec, err := l.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, cloneVector(vec))
	return vec, nil
}

func (l *lruProvider) ModelName() string {
	return l.next.ModelName()
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + model + ":" + hex.EncodeToString(sum[:])
}

func cloneVector(v []float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
