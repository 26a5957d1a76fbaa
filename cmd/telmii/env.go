package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/pkg/env"
)

var revealSecrets bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the effective configuration in .env format",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithEnv(cmd, func(ctx context.Context) error {
			return runEnv(ctx, cmd)
		})
	},
}

func init() {
	envCmd.Flags().BoolVar(&revealSecrets, "reveal", false, "print API keys and URLs with credentials unredacted")
	rootCmd.AddCommand(envCmd)
}

func runEnv(ctx context.Context, cmd *cobra.Command) error {
	app := config.NewAppConfig(ctx)
	configs := []any{app}

	switch app.HistoryBackend {
	case config.HistoryBackendRedis:
		configs = append(configs, config.NewRedisConfig(ctx))
	case config.HistoryBackendSQLite:
		configs = append(configs, config.NewSQLiteConfig(ctx, app))
	}
	configs = append(configs,
		config.NewVectorConfig(ctx),
		config.NewEmbeddingConfig(ctx),
		config.NewRouterConfig(ctx),
		config.NewLLMConfig(ctx),
	)

	out, err := env.MarshalEnv(revealSecrets, configs...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
