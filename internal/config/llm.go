package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/telmii/telmii/pkg/log"
)

const (
	LLMTransportGateway = "gateway"
	LLMTransportDirect  = "direct"
)

type LLMConfig struct {
	Transport  string `env:"LLM_TRANSPORT" envDefault:"gateway"`
	GatewayURL string `env:"GATEWAY_URL" envDefault:"http://127.0.0.1:8000"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	XAIAPIKey       string `env:"XAI_API_KEY"`
	XAIBaseURL      string `env:"XAI_BASE_URL" envDefault:"https://api.x.ai"`
	GoogleAPIKey    string `env:"GOOGLE_GENERATIVE_AI_API_KEY"`
	GoogleBaseURL   string `env:"GOOGLE_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	Temperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.8"`
	TopP            float64       `env:"LLM_TOP_P" envDefault:"0.9"`
	MaxOutputTokens int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"500"`
	Timeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}
