package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/pkg/env"
)

// SaveEnvStep writes the collected configuration to the runtime .env file.
// Refuses to overwrite an existing installation.
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	path := config.GetRuntimePath()
	if err := os.MkdirAll(path, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	envPath := filepath.Join(path, ".env")
	if _, err := os.Stat(envPath); err == nil {
		s.err = fmt.Errorf(".env file already exists at %s", envPath)
		return s, nil
	}

	content, err := renderEnv(state)
	if err != nil {
		s.err = err
		return s, nil
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

// renderEnv serializes the typed configs through their env tags. The
// transport flags are written by hand: MarshalEnv skips zero values, and a
// skipped false would fall back to the tag default on the next start.
func renderEnv(state *InstallState) (string, error) {
	var b strings.Builder

	for _, cfg := range []any{&state.LLM, &state.Embedding, &state.Telegram} {
		part, err := env.MarshalEnv(cfg)
		if err != nil {
			return "", err
		}
		b.WriteString(part)
	}

	b.WriteString(fmt.Sprintf("PULSE_ENABLE_TELEGRAM=%t\n", state.EnableTelegram))
	b.WriteString(fmt.Sprintf("PULSE_ENABLE_CLI=%t\n", state.EnableCLI))

	return b.String(), nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}
