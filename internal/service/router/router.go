package router

import (
	"context"
	"strings"

	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

type Router struct {
	table *Table
}

func New(table *Table) *Router {
	return &Router{table: table}
}

func (r *Router) Table() *Table {
	return r.table
}

// PickProvider chooses the provider and model for a companion. The result
// depends only on the trimmed category and the personality.
func (r *Router) PickProvider(ctx context.Context, category string, personality core.Personality) core.ProviderChoice {
	category = strings.TrimSpace(category)
	route, found := r.table.Lookup(category)
	if !found {
		log.FromCtx(ctx).Debug().Str("category", category).Msg("unknown category, using fallback route")
	}

	choice := core.ProviderChoice{Provider: route.Provider, ModelName: route.Model}
	if !route.Pinned {
		switch personality {
		case core.PersonalitySerious:
			choice = r.table.serious
		case core.PersonalityCreative:
			choice = r.table.creative
		}
	}

	if choice.ModelName == "" {
		choice.ModelName = r.table.defaultModel
	}
	return choice
}

// Normalize reshapes a message list for the provider. Providers that require
// strict alternation get system text folded into the first user turn, leading
// assistant turns dropped and same-role runs merged. Everyone else only gets
// roles coerced and empty messages dropped.
func (r *Router) Normalize(provider core.Provider, messages []core.ChatMessage) []core.ChatMessage {
	return Normalize(provider, messages)
}

func Normalize(provider core.Provider, messages []core.ChatMessage) []core.ChatMessage {
	if len(messages) == 0 {
		return []core.ChatMessage{}
	}

	if !provider.RequiresAlternation() {
		out := make([]core.ChatMessage, 0, len(messages))
		for _, m := range messages {
			role := core.CoerceRole(m.Role)
			if role != core.RoleSystem && isBlank(m.Content) {
				continue
			}
			out = append(out, core.ChatMessage{Role: role, Content: m.Content})
		}
		return out
	}

	// Coerce roles, keep system text aside, drop empty turns
	var (
		system []string
		turns  []core.ChatMessage
	)
	for _, m := range messages {
		role := core.CoerceRole(m.Role)
		if role == core.RoleSystem {
			if s := strings.TrimSpace(m.Content); s != "" {
				system = append(system, s)
			}
			continue
		}
		if isBlank(m.Content) {
			continue
		}
		turns = append(turns, core.ChatMessage{Role: role, Content: m.Content})
	}

	for len(turns) > 0 && turns[0].Role == core.RoleAssistant {
		turns = turns[1:]
	}

	turns = mergeRuns(turns)

	if len(turns) == 0 || turns[0].Role != core.RoleUser {
		turns = append([]core.ChatMessage{{Role: core.RoleUser, Content: ""}}, turns...)
	}

	if sys := strings.Join(system, "\n\n"); sys != "" {
		folded := sys
		if turns[0].Content != "" {
			folded += "\n\n" + turns[0].Content
		}
		turns[0].Content = strings.TrimSpace(folded)
	}

	turns = mergeRuns(turns)

	out := make([]core.ChatMessage, 0, len(turns))
	for i, m := range turns {
		if i > 0 && isBlank(m.Content) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func mergeRuns(in []core.ChatMessage) []core.ChatMessage {
	out := make([]core.ChatMessage, 0, len(in))
	for _, m := range in {
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, m)
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
