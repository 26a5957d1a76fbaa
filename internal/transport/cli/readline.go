package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/telmii/telmii/internal/service/chat"
	"github.com/telmii/telmii/internal/service/command"
	"github.com/telmii/telmii/pkg/log"
)

// Turner runs one chat turn.
type Turner interface {
	Turn(ctx context.Context, req chat.Request) (chat.Reply, error)
}

// Commands handles slash commands typed into the session.
type Commands interface {
	Execute(ctx context.Context, session command.Session, input string) (string, bool)
}

// ReadLine is an interactive chat session with a single companion.
type ReadLine struct {
	chat     Turner
	commands Commands
	session  command.Session
	rl       *readline.Instance
}

func NewReadLine(chat Turner, commands Commands, session command.Session, historyPath string) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(filepath.Dir(historyPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	name := session.Companion.Name
	if name == "" {
		name = "companion"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s> ", name),
		HistoryFile:     historyPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		chat:     chat,
		commands: commands,
		session:  session,
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("companion", r.session.Companion.Name).Msg("chat started. Type 'exit' to quit, '/help' for commands.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if done := r.handle(ctx, r.rl.Stdout(), line); done {
			return nil
		}
	}
}

// handle processes one input line and reports whether the session should end.
func (r *ReadLine) handle(ctx context.Context, out io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "exit":
		return true
	}

	if res, ok := r.commands.Execute(ctx, r.session, line); ok {
		fmt.Fprint(out, res)
		return false
	}

	reply, err := r.chat.Turn(ctx, chat.Request{
		Companion: r.session.Companion,
		UserID:    r.session.UserID,
		Prompt:    line,
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("chat turn failed")
		fmt.Fprintf(out, "Error: %v\n", err)
		return false
	}

	fmt.Fprintf(out, "%s\n", reply.Text)
	return false
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
