package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/internal/service/command"
	"github.com/telmii/telmii/internal/service/memory"
	"github.com/telmii/telmii/internal/transport/cli"
	"github.com/telmii/telmii/pkg/srv"
)

var chatFlags struct {
	companion    string
	name         string
	category     string
	seed         string
	seedFile     string
	instructions string
	user         string
	queueSize    int
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a companion in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithEnv(cmd, runChat)
	},
}

func init() {
	f := chatCmd.Flags()
	f.StringVar(&chatFlags.companion, "companion", "", "companion id (required)")
	f.StringVar(&chatFlags.name, "name", "", "companion display name")
	f.StringVar(&chatFlags.category, "category", "", "companion category used for model routing")
	f.StringVar(&chatFlags.seed, "seed", "", "seed conversation written when the history is empty")
	f.StringVar(&chatFlags.seedFile, "seed-file", "", "read the seed conversation from a file")
	f.StringVar(&chatFlags.instructions, "instructions", "", "persona instructions")
	f.StringVar(&chatFlags.user, "user", "", "user id (required)")
	f.IntVar(&chatFlags.queueSize, "memory-queue", 64, "pending long-term memories before new ones are dropped")
	_ = chatCmd.MarkFlagRequired("companion")
	_ = chatCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context) error {
	companion, err := companionFromFlags()
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	worker := memory.NewStoreWorker(a.recall, chatFlags.queueSize)
	svc, err := newChatService(ctx, a, worker)
	if err != nil {
		a.close(ctx)
		return err
	}

	commands := command.NewCommands(a.manager, newRouter(ctx))
	repl, err := cli.NewReadLine(svc, commands, command.Session{
		Companion: companion,
		UserID:    chatFlags.user,
		ModelName: a.cfg.HistoryModelLabel,
	}, a.cfg.GetInputHistoryPath())
	if err != nil {
		a.close(ctx)
		return fmt.Errorf("init terminal: %w", err)
	}

	// Cleanups run last so the worker can drain into an open index.
	services := append([]srv.Service{}, a.cleanups...)
	services = append(services, worker, repl)
	return srv.Run(ctx, services)
}

func companionFromFlags() (core.Companion, error) {
	seed := chatFlags.seed
	if chatFlags.seedFile != "" {
		data, err := os.ReadFile(chatFlags.seedFile)
		if err != nil {
			return core.Companion{}, fmt.Errorf("read seed file: %w", err)
		}
		seed = string(data)
	}

	name := chatFlags.name
	if name == "" {
		name = chatFlags.companion
	}

	return core.Companion{
		ID:           strings.TrimSpace(chatFlags.companion),
		Name:         name,
		Category:     chatFlags.category,
		Seed:         seed,
		Instructions: chatFlags.instructions,
	}, nil
}
