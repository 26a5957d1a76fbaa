package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/telmii/telmii/internal/core"
)

const defaultChatPath = "/v1/chat/completions"

type OpenAICompatible struct {
	baseProvider
	chatPath     string
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
	sampling     Sampling
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	ChatPath     string // defaults to /v1/chat/completions
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
	Sampling     Sampling
	Timeout      time.Duration
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	chatPath := cfg.ChatPath
	if chatPath == "" {
		chatPath = defaultChatPath
	}
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
		chatPath:     chatPath,
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
		sampling:     cfg.Sampling,
	}
}

func (o *OpenAICompatible) Complete(ctx context.Context, choice core.ProviderChoice, messages []core.ChatMessage) (string, error) {
	payload := map[string]any{
		"model":    choice.ModelName,
		"messages": messages,
	}
	if o.sampling.Temperature > 0 {
		payload["temperature"] = o.sampling.Temperature
	}
	if o.sampling.TopP > 0 {
		payload["top_p"] = o.sampling.TopP
	}
	if o.sampling.MaxOutputTokens > 0 {
		payload["max_tokens"] = o.sampling.MaxOutputTokens
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	resp, err := o.doRequest(ctx, http.MethodPost, o.chatPath, payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return parseOpenAIResponse(resp)
}

func parseOpenAIResponse(resp *http.Response) (string, error) {
	data, err := readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message core.ChatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}
