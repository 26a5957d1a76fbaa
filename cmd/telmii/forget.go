package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/core"
)

var forgetFlags struct {
	companion string
	user      string
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Delete a user's transcript and long-term memories for one companion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithEnv(cmd, func(ctx context.Context) error {
			return runForget(ctx, cmd)
		})
	},
}

func init() {
	forgetCmd.Flags().StringVar(&forgetFlags.companion, "companion", "", "companion id (required)")
	forgetCmd.Flags().StringVar(&forgetFlags.user, "user", "", "user id (required)")
	_ = forgetCmd.MarkFlagRequired("companion")
	_ = forgetCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(forgetCmd)
}

func runForget(ctx context.Context, cmd *cobra.Command) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	key := core.CompanionKey{
		CompanionName: forgetFlags.companion,
		ModelName:     a.cfg.HistoryModelLabel,
		UserID:        forgetFlags.user,
	}
	if err := a.manager.ClearUserMemories(ctx, key); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "cleared memories of %s for %s\n", forgetFlags.user, forgetFlags.companion)
	return nil
}
