package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/telmii/telmii/internal/core"
)

// Gateway forwards completions to the LLM gateway service, which owns the
// provider credentials and SDKs.
type Gateway struct {
	baseProvider
	sampling Sampling
}

type gatewayRequest struct {
	Provider        core.Provider      `json:"provider"`
	Model           string             `json:"model"`
	Messages        []core.ChatMessage `json:"messages"`
	Temperature     float64            `json:"temperature"`
	TopP            float64            `json:"top_p"`
	MaxOutputTokens int                `json:"max_output_tokens"`
}

type gatewayResponse struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func NewGateway(baseURL string, sampling Sampling, timeout time.Duration) *Gateway {
	return &Gateway{
		baseProvider: newBaseProvider(baseURL, "", timeout),
		sampling:     sampling,
	}
}

func (g *Gateway) Complete(ctx context.Context, choice core.ProviderChoice, messages []core.ChatMessage) (string, error) {
	payload := gatewayRequest{
		Provider:        choice.Provider,
		Model:           choice.ModelName,
		Messages:        messages,
		Temperature:     g.sampling.Temperature,
		TopP:            g.sampling.TopP,
		MaxOutputTokens: g.sampling.MaxOutputTokens,
	}

	resp, err := g.doRequest(ctx, http.MethodPost, "/v1/chat", payload, nil)
	if err != nil {
		return "", fmt.Errorf("gateway: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("gateway: %w", err)
	}

	var result gatewayResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("gateway decode: %w", err)
	}
	return result.Text, nil
}

// Health checks the gateway liveness endpoint.
func (g *Gateway) Health(ctx context.Context) error {
	resp, err := g.doRequest(ctx, http.MethodGet, "/v1/healthz", nil, nil)
	if err != nil {
		return fmt.Errorf("gateway health: %w", err)
	}
	defer resp.Body.Close()

	if _, err := readBody(resp); err != nil {
		return fmt.Errorf("gateway health: %w", err)
	}
	return nil
}
