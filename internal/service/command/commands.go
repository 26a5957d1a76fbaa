package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/internal/service/memory"
	"github.com/telmii/telmii/internal/service/router"
)

// Memory is the part of the memory layer the commands touch.
type Memory interface {
	ReadLatestHistory(ctx context.Context, key core.CompanionKey) (string, error)
	ClearUserMemories(ctx context.Context, key core.CompanionKey) error
	VectorSearch(ctx context.Context, query, companionFileName, userID string) []core.MemoryDocument
}

type Picker interface {
	PickProvider(ctx context.Context, category string, personality core.Personality) core.ProviderChoice
}

// NewCommands returns the default chat commands, /help included.
func NewCommands(mem Memory, picker Picker) *Router {
	r := New([]Command{
		&ForgetCommand{memory: mem},
		&HistoryCommand{memory: mem},
		&RecallCommand{memory: mem},
		&RouteCommand{picker: picker},
	})
	r.Register(&HelpCommand{router: r})
	return r
}

type ForgetCommand struct {
	memory Memory
}

func (c *ForgetCommand) Name() string        { return "forget" }
func (c *ForgetCommand) Description() string { return "Wipe your transcript and memories with this companion" }

func (c *ForgetCommand) Execute(ctx context.Context, session Session, _ []string) (string, error) {
	if err := c.memory.ClearUserMemories(ctx, session.Key()); err != nil {
		return "", err
	}
	return NewResponseFormatter().Success("Memories cleared."), nil
}

type HistoryCommand struct {
	memory Memory
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show the recent transcript" }

func (c *HistoryCommand) Execute(ctx context.Context, session Session, _ []string) (string, error) {
	f := NewResponseFormatter()
	transcript, err := c.memory.ReadLatestHistory(ctx, session.Key())
	if err != nil {
		return "", err
	}
	if transcript == "" {
		return f.Combine(f.Title("Recent history"), f.Label("Status", "empty")), nil
	}
	return f.Combine(f.Title("Recent history"), transcript, "\n"), nil
}

type RecallCommand struct {
	memory Memory
}

func (c *RecallCommand) Name() string        { return "recall" }
func (c *RecallCommand) Description() string { return "Search long-term memories" }

func (c *RecallCommand) Execute(ctx context.Context, session Session, args []string) (string, error) {
	f := NewResponseFormatter()
	if len(args) == 0 {
		return f.Usage("/recall <text>"), nil
	}

	docs := c.memory.VectorSearch(ctx, strings.Join(args, " "), memory.CompanionFileName(session.Companion.ID), session.UserID)
	if len(docs) == 0 {
		return f.Combine(f.Title("Memories"), f.Label("Status", "nothing relevant")), nil
	}

	items := make([]string, len(docs))
	for i, doc := range docs {
		items[i] = fmt.Sprintf("%.3f %s", doc.Score, doc.PageContent)
	}
	return f.Combine(f.Title("Memories"), f.List(items)), nil
}

type RouteCommand struct {
	picker Picker
}

func (c *RouteCommand) Name() string        { return "route" }
func (c *RouteCommand) Description() string { return "Show which model answers this companion" }

func (c *RouteCommand) Execute(ctx context.Context, session Session, _ []string) (string, error) {
	if c.picker == nil {
		return "", errors.New("routing is not available")
	}
	personality := router.ParsePersonality(session.Companion.Seed)
	choice := c.picker.PickProvider(ctx, session.Companion.Category, personality)

	f := NewResponseFormatter()
	return f.Combine(
		f.Title("Routing"),
		f.Label("Category", session.Companion.Category),
		f.Label("Personality", string(personality)),
		f.Label("Provider", string(choice.Provider)),
		f.Label("Model", choice.ModelName),
	), nil
}

type HelpCommand struct {
	router *Router
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List commands" }

func (c *HelpCommand) Execute(context.Context, Session, []string) (string, error) {
	f := NewResponseFormatter()
	cmds := c.router.ListCommands()
	items := make([]string, 0, len(cmds)+1)
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("/%-8s %s", cmd.Name(), cmd.Description()))
	}
	items = append(items, fmt.Sprintf("%-9s %s", "exit", "Leave the chat"))
	return f.Combine(f.Title("Commands"), f.List(items)), nil
}
