package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

// DynamicProvider lets the model be swapped at runtime. Chat always sees a
// fully constructed provider: SetModel builds the replacement first and
// swaps it in last, so a bad model spec leaves the old provider running.
type DynamicProvider struct {
	mu      sync.Mutex
	cfg     *config.LLMConfig
	current atomic.Pointer[core.AIProvider]
}

func NewDynamicProvider(ctx context.Context, cfg *config.LLMConfig) (*DynamicProvider, error) {
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d := &DynamicProvider{cfg: cfg}
	d.current.Store(&p)
	return d, nil
}

func (d *DynamicProvider) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	return (*d.current.Load()).Chat(ctx, history, tools)
}

func (d *DynamicProvider) Provider() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Provider
}

func (d *DynamicProvider) Model() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Model
}

// SetModel switches to a "provider/model" or bare "model" spec. The change
// is written back to the runtime .env so it survives restarts.
func (d *DynamicProvider) SetModel(ctx context.Context, spec string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	provider, model := splitModelSpec(d.cfg.Provider, spec)
	if model == "" {
		return fmt.Errorf("empty model in spec %q", spec)
	}

	next := *d.cfg
	next.Provider = provider
	next.Model = model

	p, err := NewProvider(ctx, &next)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	*d.cfg = next
	d.current.Store(&p)

	if err := persistModel(provider, model); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("model change not persisted")
	}
	return nil
}

// splitModelSpec keeps the current provider when the spec carries no known
// provider prefix. Model names may themselves contain slashes, as in
// "openrouter/openai/gpt-4o-mini".
func splitModelSpec(currentProvider, spec string) (string, string) {
	head, rest, found := strings.Cut(spec, "/")
	if found && knownProvider(head) {
		return head, rest
	}
	return currentProvider, spec
}

func knownProvider(name string) bool {
	switch name {
	case "openai", "anthropic", "openrouter", "ollama", "custom":
		return true
	}
	return false
}

func persistModel(provider, model string) error {
	path := filepath.Join(config.GetRuntimePath(), ".env")
	if _, err := os.Stat(path); err != nil {
		// Not an installed runtime, nothing to persist.
		return nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	vars["PULSE_LLM_PROVIDER"] = provider
	vars["PULSE_LLM_MODEL"] = model
	return godotenv.Write(vars, path)
}
