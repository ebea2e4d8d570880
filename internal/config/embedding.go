package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type EmbeddingConfig struct {
	// Provider selects the embedding backend: "ollama" talks to a running
	// Ollama server, "local" loads a GGUF model in-process.
	Provider string `env:"PULSE_EMBEDDING_PROVIDER" envDefault:"ollama"`

	BaseURL    string `env:"PULSE_EMBEDDING_BASE_URL" envDefault:"http://localhost:11434"`
	Model      string `env:"PULSE_EMBEDDING_MODEL" envDefault:"nomic-embed-text"`
	Dimensions int    `env:"PULSE_EMBEDDING_DIMENSIONS" envDefault:"768"`

	// Chunking for long texts before embedding
	ChunkMaxTokens int `env:"PULSE_CHUNK_MAX_TOKENS" envDefault:"400"`
	ChunkOverlap   int `env:"PULSE_CHUNK_OVERLAP" envDefault:"50"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	c := &EmbeddingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse embedding config")
	}
	return c
}
