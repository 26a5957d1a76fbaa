package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telmii/telmii/internal/config"
)

type countingEmbedder struct {
	calls []string
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls = append(c.calls, text)
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestHashEmbedder(t *testing.T) {
	ctx := context.Background()
	h := NewHashEmbedder(64)

	a1, err := h.Embed(ctx, "I love hiking in the mountains")
	require.NoError(t, err)
	a2, err := h.Embed(ctx, "i LOVE hiking, in the mountains!")
	require.NoError(t, err)
	b, err := h.Embed(ctx, "quarterly tax filing deadline")
	require.NoError(t, err)

	assert.Len(t, a1, 64)
	assert.Equal(t, a1, a2, "case and punctuation must not matter")
	assert.InDelta(t, 1.0, dot(a1, a1), 1e-5)
	assert.Greater(t, dot(a1, a2), dot(a1, b))

	_, err = h.Embed(ctx, " ... ")
	assert.Error(t, err)
}

func TestHashEmbedder_CancellingWordsFail(t *testing.T) {
	h := NewHashEmbedder(256)

	// both words hash to the same bucket with opposite signs
	vec, err := h.Embed(context.Background(), "w2 w200")
	require.Error(t, err)
	assert.Nil(t, vec)
}

func TestCachedEmbedder(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{}
	c, err := NewCachedEmbedder(next, 100)
	require.NoError(t, err)
	defer c.Close()

	v1, err := c.Embed(ctx, "hello")
	require.NoError(t, err)
	c.Wait()

	v2, err := c.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, []string{"hello"}, next.calls)

	v2[0] = 99
	v3, err := c.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, v1, v3, "callers must not be able to mutate cached vectors")
}

func TestCachedEmbedder_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{err: errors.New("down")}
	c, err := NewCachedEmbedder(next, 100)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Embed(ctx, "x")
	require.Error(t, err)
	c.Wait()
	_, err = c.Embed(ctx, "x")
	require.Error(t, err)
	assert.Len(t, next.calls, 2)
}

func TestTokenCounter(t *testing.T) {
	tc := NewTokenCounter()

	assert.Equal(t, 0, tc.Count(""))
	assert.Positive(t, tc.Count("hello there"))

	long := strings.Repeat("memory ", 200)
	cut := tc.Truncate(long, 10)
	assert.LessOrEqual(t, tc.Count(cut), 10)
	assert.True(t, strings.HasPrefix(long, cut))

	assert.Equal(t, "short", tc.Truncate("short", 10))
	assert.Equal(t, long, tc.Truncate(long, 0))
}

func TestNewEmbedder(t *testing.T) {
	ctx := context.Background()

	_, err := NewEmbedder(&config.EmbeddingConfig{Provider: "nope"}, NewTokenCounter())
	assert.Error(t, err)

	_, err = NewEmbedder(&config.EmbeddingConfig{Provider: config.EmbeddingProviderOpenAI}, NewTokenCounter())
	assert.Error(t, err, "openai needs a key")

	e, err := NewEmbedder(&config.EmbeddingConfig{
		Provider:     config.EmbeddingProviderHash,
		Dims:         32,
		MaxTokens:    100,
		CacheEntries: 10,
	}, NewTokenCounter())
	require.NoError(t, err)
	defer e.Close()

	vec, err := e.Embed(ctx, "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, 32)
}
