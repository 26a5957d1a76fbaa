package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/service/router"
)

var routeFlags struct {
	category string
	seed     string
	list     bool
}

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Show which provider and model a companion would be routed to",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithEnv(cmd, func(ctx context.Context) error {
			return runRoute(ctx, cmd)
		})
	},
}

func init() {
	routeCmd.Flags().StringVar(&routeFlags.category, "category", "", "companion category")
	routeCmd.Flags().StringVar(&routeFlags.seed, "seed", "", "companion seed, scanned for personality keywords")
	routeCmd.Flags().BoolVar(&routeFlags.list, "list", false, "print the whole routing table")

	rootCmd.AddCommand(routeCmd)
}

func runRoute(ctx context.Context, cmd *cobra.Command) error {
	r := newRouter(ctx)
	out := cmd.OutOrStdout()

	if routeFlags.list {
		table := r.Table()
		for _, category := range table.Categories() {
			route, _ := table.Lookup(category)
			pinned := ""
			if route.Pinned {
				pinned = " (pinned)"
			}
			fmt.Fprintf(out, "%-12s %-8s %s%s\n", category, route.Provider, route.Model, pinned)
		}
		return nil
	}

	personality := router.ParsePersonality(routeFlags.seed)
	choice := r.PickProvider(ctx, routeFlags.category, personality)
	fmt.Fprintf(out, "provider:    %s\nmodel:       %s\npersonality: %s\n", choice.Provider, choice.ModelName, personality)
	return nil
}
