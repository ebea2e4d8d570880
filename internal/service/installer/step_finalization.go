package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep shows the collected configuration before anything is
// written to disk.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return nil
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		return nil, nil
	}
	return s, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	var transports []string
	if state.EnableTelegram {
		transports = append(transports, "telegram")
	}
	if state.EnableCLI {
		transports = append(transports, "terminal")
	}

	var b strings.Builder
	b.WriteString("Review your configuration:\n\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Provider:   %s", state.LLM.Provider)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Model:      %s", state.LLM.Model)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Embeddings: %s", state.Embedding.Provider)) + "\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Transports: %s", strings.Join(transports, ", "))) + "\n")
	b.WriteString("\n(press enter to save, ctrl+c to quit)\n")
	return b.String()
}
