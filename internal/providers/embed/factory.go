package embed

import (
	"fmt"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
)

// NewEmbedder builds the configured backend. Every backend is checked
// against cfg.Dimensions on each call, since the episodes table is
// created with a fixed vector size.
func NewEmbedder(cfg *config.EmbeddingConfig) (core.Embedder, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllama(cfg), nil
	case "local":
		return NewLocal(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
