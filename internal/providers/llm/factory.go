package llm

import (
	"context"
	"fmt"

	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

// Dispatcher sends each completion to the transport registered for its provider.
type Dispatcher struct {
	providers map[core.Provider]core.ChatProvider
}

func NewDispatcher(providers map[core.Provider]core.ChatProvider) *Dispatcher {
	return &Dispatcher{providers: providers}
}

func (d *Dispatcher) Complete(ctx context.Context, choice core.ProviderChoice, messages []core.ChatMessage) (string, error) {
	p, ok := d.providers[choice.Provider]
	if !ok {
		return "", fmt.Errorf("%w: no transport for %q", core.ErrUnknownProvider, choice.Provider)
	}
	return p.Complete(ctx, choice, messages)
}

// NewChatProvider creates the completion transport based on configuration.
func NewChatProvider(ctx context.Context, cfg *config.LLMConfig) (core.ChatProvider, error) {
	sampling := Sampling{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	log.FromCtx(ctx).Info().
		Str("transport", cfg.Transport).
		Msg("starting llm transport")

	switch cfg.Transport {
	case config.LLMTransportGateway:
		return NewGateway(cfg.GatewayURL, sampling, cfg.Timeout), nil
	case config.LLMTransportDirect:
		providers := map[core.Provider]core.ChatProvider{}
		if cfg.AnthropicAPIKey != "" {
			providers[core.ProviderBedrock] = NewAnthropic(cfg.AnthropicAPIKey, sampling, cfg.Timeout)
		}
		if cfg.OpenAIAPIKey != "" {
			providers[core.ProviderOpenAI] = NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, sampling, cfg.Timeout)
		}
		if cfg.XAIAPIKey != "" {
			providers[core.ProviderXAI] = NewXAI(cfg.XAIBaseURL, cfg.XAIAPIKey, sampling, cfg.Timeout)
		}
		if cfg.GoogleAPIKey != "" {
			providers[core.ProviderGoogle] = NewGoogle(cfg.GoogleBaseURL, cfg.GoogleAPIKey, sampling, cfg.Timeout)
		}
		if len(providers) == 0 {
			return nil, fmt.Errorf("direct llm transport needs at least one provider api key")
		}
		return NewDispatcher(providers), nil
	default:
		return nil, fmt.Errorf("unknown llm transport: %s", cfg.Transport)
	}
}
