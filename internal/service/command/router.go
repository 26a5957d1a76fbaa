package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/telmii/telmii/internal/core"
)

// Session identifies who is talking to which companion in an interactive chat.
type Session struct {
	Companion core.Companion
	UserID    string
	ModelName string
}

func (s Session) Key() core.CompanionKey {
	return core.CompanionKey{
		CompanionName: s.Companion.ID,
		ModelName:     s.ModelName,
		UserID:        s.UserID,
	}
}

// Command is a slash command available inside a chat session.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, session Session, args []string) (string, error)
}

type Router struct {
	commands map[string]Command
}

func New(commands []Command) *Router {
	c := &Router{
		commands: make(map[string]Command),
	}

	for _, cmd := range commands {
		c.Register(cmd)
	}
	return c
}

func (c *Router) Register(cmd Command) {
	c.commands[cmd.Name()] = cmd
}

// Execute runs input as a slash command. The bool is false when input is not
// a command and should go to the companion instead.
func (c *Router) Execute(ctx context.Context, session Session, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s (try /help)", name), true
	}

	result, err := cmd.Execute(ctx, session, args)
	if err != nil {
		return NewResponseFormatter().Error(err), true
	}
	return result, true
}

func (c *Router) ListCommands() []Command {
	res := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
