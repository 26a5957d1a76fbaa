package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/telmii/telmii/pkg/log"
)

// RouterConfig carries the per-category model names. Providers per category
// are fixed in the routing table; only the model names are deployment knobs.
type RouterConfig struct {
	BedrockDefault  string `env:"BEDROCK_MODEL_DEFAULT" envDefault:"anthropic.claude-3-haiku-20240307-v1:0"`
	BedrockMentors  string `env:"BEDROCK_MODEL_MENTORS"`
	BedrockCareer   string `env:"BEDROCK_MODEL_CAREER"`
	OpenAITech      string `env:"OPENAI_MODEL_TECH" envDefault:"gpt-4o-mini"`
	OpenAISports    string `env:"OPENAI_MODEL_SPORTS" envDefault:"gpt-4o-mini"`
	GoogleMovies    string `env:"GOOGLE_MODEL_MOVIES" envDefault:"gemini-1.5-flash"`
	GoogleMusic     string `env:"GOOGLE_MODEL_MUSIC" envDefault:"gemini-1.5-flash"`
	GoogleCreative  string `env:"GOOGLE_MODEL_CREATIVE" envDefault:"gemini-1.5-flash"`
	XAIFriends      string `env:"XAI_MODEL_FRIENDS" envDefault:"grok-2"`
	XAIGaming       string `env:"XAI_MODEL_GAMING" envDefault:"grok-2"`
	XAITravel       string `env:"XAI_MODEL_TRAVEL" envDefault:"grok-2"`
	XAISpiritual    string `env:"XAI_MODEL_SPIRITUAL" envDefault:"grok-2"`
	XAIDefault      string `env:"XAI_MODEL_DEFAULT" envDefault:"grok-2"`
	DefaultCategory string `env:"ROUTER_DEFAULT_CATEGORY" envDefault:"General"`
}

func NewRouterConfig(ctx context.Context) *RouterConfig {
	c := &RouterConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Router config")
	}
	return c
}

// Mentors and Career fall back to the bedrock default when unset.
func (c RouterConfig) MentorsModel() string {
	if c.BedrockMentors != "" {
		return c.BedrockMentors
	}
	return c.BedrockDefault
}

func (c RouterConfig) CareerModel() string {
	if c.BedrockCareer != "" {
		return c.BedrockCareer
	}
	return c.BedrockDefault
}
