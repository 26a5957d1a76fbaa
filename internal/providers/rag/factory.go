package rag

import (
	"context"
	"fmt"

	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/core"
)

// truncatingEmbedder keeps inputs inside the embedding model's context.
type truncatingEmbedder struct {
	next      core.Embedder
	tokens    *TokenCounter
	maxTokens int
}

func (t *truncatingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return t.next.Embed(ctx, t.tokens.Truncate(text, t.maxTokens))
}

// NewEmbedder builds the configured embedder wrapped with truncation and a cache.
func NewEmbedder(cfg *config.EmbeddingConfig, tokens *TokenCounter) (*CachedEmbedder, error) {
	var base core.Embedder
	switch cfg.Provider {
	case config.EmbeddingProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("embedding provider %q requires OPENAI_API_KEY", cfg.Provider)
		}
		base = NewOpenAIEmbedder(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Dims)
	case config.EmbeddingProviderHash:
		base = NewHashEmbedder(cfg.Dims)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}

	return NewCachedEmbedder(&truncatingEmbedder{
		next:      base,
		tokens:    tokens,
		maxTokens: cfg.MaxTokens,
	}, cfg.CacheEntries)
}
