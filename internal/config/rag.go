package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/telmii/telmii/pkg/log"
)

const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderHash   = "hash"
)

type EmbeddingConfig struct {
	Provider string `env:"EMBEDDING_PROVIDER" envDefault:"openai"`
	BaseURL  string `env:"EMBEDDING_BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey   string `env:"OPENAI_API_KEY"`
	Model    string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	Dims     int    `env:"EMBEDDING_DIMS" envDefault:"1536"`

	// Inputs longer than this are truncated before embedding
	MaxTokens int `env:"EMBEDDING_MAX_TOKENS" envDefault:"8000"`

	CacheEntries int64 `env:"EMBEDDING_CACHE_ENTRIES" envDefault:"10000"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	cfg := &EmbeddingConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embedding config")
	}
	return cfg
}
