package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type providerChoice struct {
	id    string
	label string
}

// ProviderStep selects the LLM backend for the supervisor and specialists.
type ProviderStep struct {
	choices []providerChoice
	cursor  int
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices: []providerChoice{
			{id: "anthropic", label: "Anthropic"},
			{id: "openai", label: "OpenAI"},
			{id: "openrouter", label: "OpenRouter"},
			{id: "ollama", label: "Ollama (local server)"},
			{id: "custom", label: "Custom (OpenAI-compatible URL)"},
		},
		cursor: 0,
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.LLM.Provider = s.choices[s.cursor].id
			return nil, nil
		}
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select your AI Provider:\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
			b.WriteString(selStyle.Render(fmt.Sprintf("%s %s", cursor, choice.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s", cursor, choice.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
