package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/telmii/telmii/internal/core"
)

// Anthropic serves the bedrock route by calling the Anthropic API directly.
// Bedrock model ids are mapped to their Anthropic equivalents.
type Anthropic struct {
	client   *anthropic.Client
	sampling Sampling
}

func NewAnthropic(apiKey string, sampling Sampling, timeout time.Duration, opts ...option.RequestOption) *Anthropic {
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		all = append(all, option.WithRequestTimeout(timeout))
	}
	all = append(all, opts...)

	client := anthropic.NewClient(all...)
	return &Anthropic{client: &client, sampling: sampling}
}

func (a *Anthropic) Complete(ctx context.Context, choice core.ProviderChoice, messages []core.ChatMessage) (string, error) {
	maxTokens := int64(a.sampling.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(AnthropicModelID(choice.ModelName)),
		MaxTokens: maxTokens,
	}
	if a.sampling.Temperature > 0 {
		params.Temperature = anthropic.Float(a.sampling.Temperature)
	}
	if a.sampling.TopP > 0 {
		params.TopP = anthropic.Float(a.sampling.TopP)
	}

	var system []string
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, m.Content)
		case core.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

var bedrockModelID = regexp.MustCompile(`^(?:[a-z]{2}\.)?anthropic\.(.+?)(?:-v\d+(?::\d+)?)?$`)

// AnthropicModelID turns "anthropic.claude-3-haiku-20240307-v1:0" into
// "claude-3-haiku-20240307". Other ids pass through unchanged.
func AnthropicModelID(model string) string {
	if m := bedrockModelID.FindStringSubmatch(model); m != nil {
		return m[1]
	}
	return model
}
