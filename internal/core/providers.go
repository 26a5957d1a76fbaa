package core

import (
	"context"
	"fmt"
)

type Provider string

const (
	ProviderBedrock Provider = "bedrock"
	ProviderOpenAI  Provider = "openai"
	ProviderXAI     Provider = "xai"
	ProviderGoogle  Provider = "google"
)

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderBedrock, ProviderOpenAI, ProviderXAI, ProviderGoogle:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// RequiresAlternation reports whether the provider only accepts strictly
// alternating user/assistant turns with no system entries.
func (p Provider) RequiresAlternation() bool {
	return p == ProviderBedrock
}

type ProviderChoice struct {
	Provider  Provider `json:"provider"`
	ModelName string   `json:"modelName"`
}

type Personality string

const (
	PersonalityDefault  Personality = "default"
	PersonalitySerious  Personality = "serious"
	PersonalityCreative Personality = "creative"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatProvider completes an already normalized message list.
type ChatProvider interface {
	Complete(ctx context.Context, choice ProviderChoice, messages []ChatMessage) (string, error)
}
