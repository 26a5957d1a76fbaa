package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/service/memory"
	"github.com/telmii/telmii/pkg/log"
	"github.com/telmii/telmii/pkg/srv"
)

var backfillFlags struct {
	file string
	opts memory.BackfillOptions
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Embed an export of past messages into long-term memory",
	Long: `Reads a JSONL export (one message per line with id, companionId, companionName,
userId, role and content) and stores every message as a long-term memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithEnv(cmd, func(ctx context.Context) error {
			return runBackfill(ctx, cmd)
		})
	},
}

func init() {
	defaults := memory.DefaultBackfillOptions()
	f := backfillCmd.Flags()
	f.StringVarP(&backfillFlags.file, "file", "f", "", "JSONL export to read (required)")
	f.StringVar(&backfillFlags.opts.ModelName, "model", defaults.ModelName, "model name recorded on every memory")
	f.IntVar(&backfillFlags.opts.PauseEvery, "pause-every", defaults.PauseEvery, "pause after this many stored messages")
	f.DurationVar(&backfillFlags.opts.Pause, "pause", defaults.Pause, "pause length")
	f.IntVar(&backfillFlags.opts.ProgressEvery, "progress-every", defaults.ProgressEvery, "log progress after this many stored messages")
	_ = backfillCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(ctx context.Context, cmd *cobra.Command) error {
	src, err := os.Open(backfillFlags.file)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer src.Close()

	recall, cleanups, err := newRecall(ctx, config.NewAppConfig(ctx))
	defer srv.Shutdown(context.WithoutCancel(ctx), cleanups)
	if err != nil {
		return err
	}

	report, err := memory.Backfill(ctx, recall, src, backfillFlags.opts)
	log.FromCtx(ctx).Info().
		Int("total", report.Total).
		Int("processed", report.Processed).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("backfill finished")

	fmt.Fprintf(cmd.OutOrStdout(), "messages: %d\nstored:   %d\nskipped:  %d\nfailed:   %d\nusers:    %d\n",
		report.Total, report.Processed, report.Skipped, report.Failed, report.Users)
	return err
}
