package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// OllamaURLStep asks where the Ollama server lives. Skipped for every other
// provider.
type OllamaURLStep struct {
	input textinput.Model
}

func NewOllamaURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "http://localhost:11434"
	ti.Width = 50
	return &OllamaURLStep{input: ti}
}

func (s *OllamaURLStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *OllamaURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.LLM.Provider != "ollama" {
		return nil, nil
	}

	if _, ok := msg.(nextMsg); ok {
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.input.Placeholder
		}
		state.LLM.OllamaBaseURL = val
		return nil, nil
	}

	return s, cmd
}

func (s *OllamaURLStep) View(state *InstallState) string {
	return "Enter Ollama Base URL:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
