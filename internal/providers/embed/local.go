package embed

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/pkg/llamacpp"
)

const (
	// LocalModelFile is the GGUF the installer downloads for the "local"
	// provider.
	LocalModelFile = "multilingual-e5-base-q8.gguf"
	LocalModelURL  = "https://huggingface.co/dinab/multilingual-e5-base-Q8_0-GGUF/resolve/main/multilingual-e5-base-q8_0.gguf"

	// e5 models expect a task prefix on every input. Similarity search is
	// symmetric here, so both sides get the query prefix.
	e5Prefix = "query: "
)

// Local runs the embedding model in-process through llama.cpp. No server,
// no network; the model file lives under the runtime directory.
type Local struct {
	emb  *llamacpp.LlamaEmbedder
	dims int
}

func NewLocal(cfg *config.EmbeddingConfig) (*Local, error) {
	modelPath := filepath.Join(config.GetRuntimePath(), "models", LocalModelFile)

	emb, err := llamacpp.NewLlamaEmbedder(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding model: %w", err)
	}
	return &Local{emb: emb, dims: cfg.Dimensions}, nil
}

func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := l.emb.Embed(ctx, e5Prefix+strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	if len(vec) != l.dims {
		return nil, fmt.Errorf("model returned %d dimensions, want %d", len(vec), l.dims)
	}
	return vec, nil
}

func (l *Local) Dimensions() int {
	return l.dims
}

// Close frees the C-side model and context.
func (l *Local) Close() error {
	l.emb.Free()
	return nil
}
