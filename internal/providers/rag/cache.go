package rag

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/telmii/telmii/internal/core"
)

// CachedEmbedder memoizes embeddings by input text. Backfills and repeated
// recall queries hit the same strings often.
type CachedEmbedder struct {
	next  core.Embedder
	cache *ristretto.Cache
}

func NewCachedEmbedder(next core.Embedder, maxEntries int64) (*CachedEmbedder, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &CachedEmbedder{next: next, cache: cache}, nil
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return clone(vec), nil
		}
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(text, clone(vec), 1)
	return vec, nil
}

// Wait blocks until pending cache writes are visible.
func (c *CachedEmbedder) Wait() {
	c.cache.Wait()
}

func (c *CachedEmbedder) Close() {
	c.cache.Close()
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
