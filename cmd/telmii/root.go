package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

var (
	debug   bool
	jsonLog bool
)

var rootCmd = &cobra.Command{
	Use:     "telmii",
	Short:   "Telmii companion memory and routing",
	Long:    `Telmii runs companion chats with short-term transcripts, long-term semantic recall and per-category model routing.`,
	Version: core.AppVersion,

	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", config.IsJSONLog(), "log JSON lines instead of console output")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, log.Options{
		Debug: debug || config.IsDebug(),
		JSON:  jsonLog || config.IsJSONLog(),
	})
}

// runWithEnv prepares signal handling, logging and the .env file, then runs fn.
func runWithEnv(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, flushLog := setupLogger(ctx)
	defer flushLog()

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to init env")
		return err
	}

	return fn(ctx)
}
