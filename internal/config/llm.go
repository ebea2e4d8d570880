package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"PULSE_LLM_PROVIDER" envDefault:"anthropic"`
	Model    string `env:"PULSE_LLM_MODEL" envDefault:"claude-sonnet-4-20250514"`

	AnthropicAPIKey  string `env:"PULSE_ANTHROPIC_API_KEY"`
	OpenAIAPIKey     string `env:"PULSE_OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"PULSE_OPENROUTER_API_KEY"`

	OllamaBaseURL string `env:"PULSE_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey  string `env:"PULSE_OLLAMA_API_KEY"`

	CustomBaseURL string `env:"PULSE_CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey  string `env:"PULSE_CUSTOM_OPENAI_API_KEY"`

	// SpecialistTimeout bounds a single specialist invocation, tool loop
	// included. A specialist past its deadline counts as failed without
	// touching its siblings.
	SpecialistTimeout time.Duration `env:"PULSE_SPECIALIST_TIMEOUT" envDefault:"90s"`
	// MaxToolIterations caps the chat tool loop per invocation.
	MaxToolIterations int `env:"PULSE_MAX_TOOL_ITERATIONS" envDefault:"10"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse llm config")
	}
	return c
}
