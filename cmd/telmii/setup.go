package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/internal/providers/llm"
	"github.com/telmii/telmii/internal/providers/rag"
	"github.com/telmii/telmii/internal/service/chat"
	"github.com/telmii/telmii/internal/service/memory"
	"github.com/telmii/telmii/internal/service/router"
	"github.com/telmii/telmii/internal/storage/chromem"
	"github.com/telmii/telmii/internal/storage/redis"
	"github.com/telmii/telmii/internal/storage/sqlite"
	"github.com/telmii/telmii/pkg/log"
	"github.com/telmii/telmii/pkg/srv"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *config.AppConfig
	recall   *memory.Recall
	manager  *memory.Manager
	cleanups []srv.Service
}

func newRecall(ctx context.Context, cfg *config.AppConfig) (*memory.Recall, []srv.Service, error) {
	embCfg := config.NewEmbeddingConfig(ctx)
	vecCfg := config.NewVectorConfig(ctx)

	tokens := rag.NewTokenCounter()
	embedder, err := rag.NewEmbedder(embCfg, tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}
	cleanups := []srv.Service{srv.NewCleanup(func() error {
		embedder.Close()
		return nil
	})}

	persist := vecCfg.PersistPath
	if persist == "" {
		persist = cfg.GetVectorPath()
	}
	index, err := chromem.NewIndex(persist, vecCfg.Collection, vecCfg.Compress)
	if err != nil {
		return nil, cleanups, fmt.Errorf("init vector index: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("embedding", embCfg.Provider).
		Str("vectors", persist).
		Int("documents", index.Count()).
		Msg("long-term memory ready")

	return memory.NewRecall(embedder, index, tokens, cfg.MemoryMinTokens), cleanups, nil
}

func newHistoryStore(ctx context.Context, cfg *config.AppConfig) (core.SortedSet, srv.Service, error) {
	switch cfg.HistoryBackend {
	case config.HistoryBackendRedis:
		redisCfg := config.NewRedisConfig(ctx)
		client, err := redis.NewClient(ctx, redisCfg.URL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSortedSet(client, redisCfg.KeyPrefix), srv.NewCleanup(client.Close), nil
	case config.HistoryBackendSQLite:
		sqlCfg := config.NewSQLiteConfig(ctx, cfg)
		db, err := sqlite.NewDB(ctx, sqlCfg.Path, sqlCfg.BusyTimeout)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewSortedSet(db), srv.NewCleanup(db.Close), nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend: %s", cfg.HistoryBackend)
	}
}

// newApp wires storage and memory. Callers must shut the cleanups down.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.NewAppConfig(ctx)

	recall, cleanups, err := newRecall(ctx, cfg)
	if err != nil {
		srv.Shutdown(ctx, cleanups)
		return nil, err
	}

	store, closer, err := newHistoryStore(ctx, cfg)
	if err != nil {
		srv.Shutdown(ctx, cleanups)
		return nil, fmt.Errorf("init history store: %w", err)
	}
	cleanups = append(cleanups, closer)

	return &app{
		cfg:      cfg,
		recall:   recall,
		manager:  memory.NewManager(memory.NewHistory(store), recall, cfg.ContextWindowSize, cfg.RecallTopK),
		cleanups: cleanups,
	}, nil
}

func (a *app) close(ctx context.Context) {
	srv.Shutdown(context.WithoutCancel(ctx), a.cleanups)
}

func newRouter(ctx context.Context) *router.Router {
	return router.New(router.NewTable(config.NewRouterConfig(ctx)))
}

func newChatService(ctx context.Context, a *app, queue chat.MemoryQueue) (*chat.Service, error) {
	llmCfg := config.NewLLMConfig(ctx)
	provider, err := llm.NewChatProvider(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("init llm transport: %w", err)
	}

	if gw, ok := provider.(*llm.Gateway); ok {
		if err := gw.Health(ctx); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("url", llmCfg.GatewayURL).Msg("llm gateway is not reachable yet")
		}
	}

	return chat.NewService(a.manager, newRouter(ctx), provider, queue, chat.Options{
		ModelLabel:  a.cfg.HistoryModelLabel,
		DefaultSeed: a.cfg.DefaultSeed,
	}), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
