package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/internal/service/memory"
	"github.com/telmii/telmii/internal/service/router"
	"github.com/telmii/telmii/pkg/log"
)

const (
	DefaultSeed   = "You are a warm, respectful companion."
	SeedDelimiter = "\n\n"
	FallbackReply = "Okay."
	userPrefix    = "User: "
	humanPrefix   = "Human: "
)

type Router interface {
	PickProvider(ctx context.Context, category string, personality core.Personality) core.ProviderChoice
	Normalize(provider core.Provider, messages []core.ChatMessage) []core.ChatMessage
}

// MemoryQueue accepts long-term memories for asynchronous storage.
type MemoryQueue interface {
	Enqueue(ctx context.Context, text string, key core.CompanionKey) bool
}

type Memory interface {
	core.Memory
	ShouldStore(text string) bool
}

type Options struct {
	// Label recorded in the history partition key
	ModelLabel  string
	DefaultSeed string
}

type Request struct {
	Companion core.Companion
	UserID    string
	Prompt    string
}

type Reply struct {
	TurnID   string
	Text     string
	Choice   core.ProviderChoice
	Recalled int
}

// Service runs one chat turn: transcript upkeep, recall, routing and generation.
type Service struct {
	memory Memory
	router Router
	llm    core.ChatProvider
	queue  MemoryQueue
	opts   Options
}

func NewService(mem Memory, r Router, llm core.ChatProvider, queue MemoryQueue, opts Options) *Service {
	if opts.DefaultSeed == "" {
		opts.DefaultSeed = DefaultSeed
	}
	return &Service{
		memory: mem,
		router: r,
		llm:    llm,
		queue:  queue,
		opts:   opts,
	}
}

func (s *Service) Turn(ctx context.Context, req Request) (Reply, error) {
	turnID := uuid.NewString()
	logger := log.FromCtx(ctx).With().
		Str("turn", turnID).
		Str("companion", req.Companion.ID).
		Logger()
	ctx = logger.WithContext(ctx)

	key := core.CompanionKey{
		CompanionName: req.Companion.ID,
		ModelName:     s.opts.ModelLabel,
		UserID:        req.UserID,
	}
	if !key.Valid() {
		return Reply{}, core.ErrInvalidKey
	}

	existing, err := s.memory.ReadLatestHistory(ctx, key)
	if err != nil {
		return Reply{}, fmt.Errorf("read history: %w", err)
	}
	if existing == "" {
		seed := req.Companion.Seed
		if strings.TrimSpace(seed) == "" {
			seed = s.opts.DefaultSeed
		}
		if err := s.memory.SeedChatHistory(ctx, seed, SeedDelimiter, key); err != nil {
			return Reply{}, fmt.Errorf("seed history: %w", err)
		}
	}

	if _, err := s.memory.WriteToHistory(ctx, userPrefix+req.Prompt, key); err != nil {
		return Reply{}, fmt.Errorf("write prompt: %w", err)
	}

	transcript, err := s.memory.ReadLatestHistory(ctx, key)
	if err != nil {
		return Reply{}, fmt.Errorf("read history: %w", err)
	}

	recalled := s.memory.VectorSearch(ctx, transcript, memory.CompanionFileName(req.Companion.ID), req.UserID)

	choice := s.router.PickProvider(ctx, req.Companion.Category, router.ParsePersonality(req.Companion.Seed))
	messages := s.router.Normalize(choice.Provider, []core.ChatMessage{
		{Role: core.RoleSystem, Content: BuildSystemPrompt(req.Companion, recalled, transcript)},
		{Role: core.RoleUser, Content: req.Prompt},
	})

	logger.Debug().
		Str("provider", string(choice.Provider)).
		Str("model", choice.ModelName).
		Int("recalled", len(recalled)).
		Msg("generating reply")

	text, err := s.llm.Complete(ctx, choice, messages)
	if err != nil {
		return Reply{}, fmt.Errorf("generate reply: %w", err)
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		reply = FallbackReply
	}

	if _, err := s.memory.WriteToHistory(ctx, reply, key); err != nil {
		return Reply{}, fmt.Errorf("write reply: %w", err)
	}

	s.remember(ctx, humanPrefix+req.Prompt, req.Prompt, key)
	s.remember(ctx, displayName(req.Companion)+": "+reply, reply, key)

	return Reply{
		TurnID:   turnID,
		Text:     reply,
		Choice:   choice,
		Recalled: len(recalled),
	}, nil
}

// remember stores line as a long-term memory when body is substantial enough.
func (s *Service) remember(ctx context.Context, line, body string, key core.CompanionKey) {
	if !s.memory.ShouldStore(body) {
		return
	}
	if s.queue != nil {
		s.queue.Enqueue(ctx, line, key)
		return
	}
	s.memory.StoreMemory(ctx, line, key)
}

func displayName(c core.Companion) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return defaultDisplayName
}
