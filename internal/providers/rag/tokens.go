package rag

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TokenCounter counts and truncates text in model tokens. If the BPE ranks
// cannot be loaded it falls back to a four-runes-per-token estimate.
type TokenCounter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	name string
}

func NewTokenCounter() *TokenCounter {
	return &TokenCounter{name: defaultEncoding}
}

func (t *TokenCounter) encoding() *tiktoken.Tiktoken {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.name)
		if err == nil {
			t.enc = enc
		}
	})
	return t.enc
}

func (t *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if enc := t.encoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (utf8.RuneCountInString(text) + 3) / 4
}

// Truncate cuts text down to at most maxTokens tokens. maxTokens <= 0 disables it.
func (t *TokenCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 || text == "" {
		return text
	}

	if enc := t.encoding(); enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) <= maxTokens {
			return text
		}
		return enc.Decode(tokens[:maxTokens])
	}

	runes := []rune(text)
	if limit := maxTokens * 4; len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}
