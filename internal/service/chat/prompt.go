package chat

import (
	"strings"

	"github.com/telmii/telmii/internal/core"
)

const (
	defaultDisplayName = "Companion"
	emptySection       = "(none)"
)

const promptTemplate = `You are {{name}}, a warm, human-sounding companion. Talk like a friend, not a therapist.

QUESTION POLICY (must follow):
- Default: ask 0-1 short question per reply (max one "?").
- Never ask questions in two consecutive replies.
- Only ask if it clearly helps; otherwise make a statement.
- If the user says "no questions", "just comment", or similar, ask none until invited.
- No rhetorical questions.

STYLE:
- 1-3 short sentences (max 80 words). Use contractions. Vary rhythm. Avoid filler.
- Prefer statements and commentary. Mirror the user's tone and vocabulary.
- Don't repeat empathy templates (skip "It sounds like...", "I understand how you feel").
- When giving ideas, offer 2-3 concise options, then stop (don't follow with a question).
- Avoid disclaimers; keep healthy boundaries and decline unsafe content kindly.

ONLY generate plain sentences without any "Speaker:" prefixes.

Persona / instructions:
{{persona}}

Relevant long-term memory (use if helpful; do not quote verbatim):
{{memory}}

Recent chat transcript (use for context; do not echo verbatim):
{{transcript}}`

// BuildSystemPrompt renders the persona prompt for one turn.
func BuildSystemPrompt(companion core.Companion, recalled []core.MemoryDocument, transcript string) string {
	name := strings.TrimSpace(companion.Name)
	if name == "" {
		name = defaultDisplayName
	}

	persona := companion.Instructions
	if strings.TrimSpace(persona) == "" {
		persona = companion.Seed
	}

	parts := make([]string, 0, len(recalled))
	for _, d := range recalled {
		parts = append(parts, d.PageContent)
	}

	r := strings.NewReplacer(
		"{{name}}", name,
		"{{persona}}", strings.TrimSpace(persona),
		"{{memory}}", orEmpty(strings.Join(parts, "\n")),
		"{{transcript}}", orEmpty(transcript),
	)
	return strings.TrimSpace(r.Replace(promptTemplate))
}

func orEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptySection
	}
	return s
}
