package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/telmii/telmii/pkg/log"
)

const (
	HistoryBackendRedis  = "redis"
	HistoryBackendSQLite = "sqlite"
)

type AppConfig struct {
	RuntimePath string `env:"TELMII_RUNTIME_PATH" envDefault:".telmii"`

	HistoryBackend string `env:"HISTORY_BACKEND" envDefault:"redis"`

	// Short-term memory window, in transcript lines
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"30"`

	// Long-term memory
	RecallTopK      int `env:"RECALL_TOP_K" envDefault:"3"`
	MemoryMinTokens int `env:"MEMORY_MIN_TOKENS" envDefault:"8"`

	// Label stored in the history partition key; it does not pick the LLM
	HistoryModelLabel string `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	DefaultSeed       string `env:"DEFAULT_COMPANION_SEED" envDefault:"You are a warm, respectful companion."`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return resolveRuntimePath(c.RuntimePath)
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.GetRuntimePath(), "history.db")
}

func (c AppConfig) GetVectorPath() string {
	return filepath.Join(c.GetRuntimePath(), "vectors")
}

func (c AppConfig) GetInputHistoryPath() string {
	return filepath.Join(c.GetRuntimePath(), "input_history")
}
