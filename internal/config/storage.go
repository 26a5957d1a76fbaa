package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/telmii/telmii/pkg/log"
)

type RedisConfig struct {
	URL       string `env:"REDIS_URL,required,notEmpty"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"telmii"`
}

func NewRedisConfig(ctx context.Context) *RedisConfig {
	c := &RedisConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Redis config")
	}
	return c
}

type VectorConfig struct {
	// Empty keeps the index in memory only
	PersistPath string `env:"VECTOR_PERSIST_PATH"`
	Compress    bool   `env:"VECTOR_COMPRESS" envDefault:"false"`
	Collection  string `env:"VECTOR_COLLECTION" envDefault:"companion-memories"`
}

func NewVectorConfig(ctx context.Context) *VectorConfig {
	c := &VectorConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Vector config")
	}
	return c
}

type SQLiteConfig struct {
	// Empty resolves to history.db under the runtime path
	Path        string        `env:"SQLITE_PATH"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
}

func NewSQLiteConfig(ctx context.Context, app *AppConfig) *SQLiteConfig {
	c := &SQLiteConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse SQLite config")
	}
	if c.Path == "" {
		c.Path = app.GetDatabasePath()
	}
	return c
}
