package embedder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	mu    sync.Mutex
	calls int
	model string
	err   error
}

func (c *countingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingProvider) ModelName() string {
	return c.model
}

func TestWithLRU_CachesRepeatedQueries(t *testing.T) {
	inner := &countingProvider{model: "m"}
	p := WithLRU(inner, 8, time.Minute)

	first, err := p.Embed(context.Background(), "same question")
	require.NoError(t, err)
	second, err := p.Embed(context.Background(), "same question")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)

	_, err = p.Embed(context.Background(), "different question")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestWithLRU_DoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{model: "m", err: errors.New("down")}
	p := WithLRU(inner, 8, time.Minute)

	_, err := p.Embed(context.Background(), "q")
	require.Error(t, err)
	_, err = p.Embed(context.Background(), "q")
	require.Error(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestWithLRU_ReturnsDefensiveCopies(t *testing.T) {
	inner := &countingProvider{model: "m"}
	p := WithLRU(inner, 8, time.Minute)

	first, err := p.Embed(context.Background(), "q")
	require.NoError(t, err)
	first[0] = -999

	second, err := p.Embed(context.Background(), "q")
	require.NoError(t, err)
	require.NotEqual(t, float32(-999), second[0])
}

func TestWithLRU_PassthroughWhenDisabled(t *testing.T) {
	inner := &countingProvider{model: "m"}
	require.Equal(t, Provider(inner), WithLRU(inner, 0, time.Minute))
	require.Equal(t, Provider(inner), WithLRU(inner, 8, 0))
}

func TestWithLRU_KeepsModelName(t *testing.T) {
	inner := &countingProvider{model: "text-embedding-3-large"}
	p := WithLRU(inner, 8, time.Minute)
	require.Equal(t, "text-embedding-3-large", p.ModelName())
}
