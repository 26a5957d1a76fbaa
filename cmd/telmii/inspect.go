package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/service/memory"
	"github.com/telmii/telmii/pkg/srv"
)

var inspectFlags struct {
	companion string
	user      string
	query     string
	topK      int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Run a scoped long-term memory search and print the matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithEnv(cmd, func(ctx context.Context) error {
			return runInspect(ctx, cmd)
		})
	},
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.companion, "companion", "", "companion id (required)")
	f.StringVar(&inspectFlags.user, "user", "", "user id (required)")
	f.StringVarP(&inspectFlags.query, "query", "q", "", "search text (required)")
	f.IntVarP(&inspectFlags.topK, "top-k", "k", 5, "number of matches")
	_ = inspectCmd.MarkFlagRequired("companion")
	_ = inspectCmd.MarkFlagRequired("user")
	_ = inspectCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(ctx context.Context, cmd *cobra.Command) error {
	recall, cleanups, err := newRecall(ctx, config.NewAppConfig(ctx))
	defer srv.Shutdown(context.WithoutCancel(ctx), cleanups)
	if err != nil {
		return err
	}

	docs := recall.Search(ctx, inspectFlags.query, memory.CompanionFileName(inspectFlags.companion), inspectFlags.user, inspectFlags.topK)

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for i, doc := range docs {
		fmt.Fprintf(out, "#%d score=%.4f id=%s\n", i+1, doc.Score, doc.ID)
		fmt.Fprintf(out, "   fileName=%s userId=%s modelName=%s timestamp=%s\n",
			doc.Metadata.FileName, doc.Metadata.UserID, doc.Metadata.ModelName, doc.Metadata.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "   %s\n", doc.PageContent)
	}
	return nil
}
