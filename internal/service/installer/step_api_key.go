package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects the API key for the chosen provider. Ollama and custom
// endpoints often run without one, so for those the key is optional.
type APIKeyStep struct {
	input      textinput.Model
	configured bool
	target     *string
	title      string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *APIKeyStep) configure(state *InstallState) bool {
	switch state.LLM.Provider {
	case "anthropic":
		s.target = &state.LLM.AnthropicAPIKey
		s.title = "Anthropic API Key"
	case "openai":
		s.target = &state.LLM.OpenAIAPIKey
		s.title = "OpenAI API Key"
	case "openrouter":
		s.target = &state.LLM.OpenRouterAPIKey
		s.title = "OpenRouter API Key"
	case "ollama":
		s.target = &state.LLM.OllamaAPIKey
		s.title = "Ollama API Key"
		s.isOptional = true
	case "custom":
		s.target = &state.LLM.CustomAPIKey
		s.title = "API Key"
		s.isOptional = true
	default:
		return false
	}

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch state.LLM.Provider {
	case "anthropic":
		s.input.Placeholder = "sk-ant-..."
	case "openai":
		s.input.Placeholder = "sk-..."
	case "openrouter":
		s.input.Placeholder = "sk-or-v1-..."
	default:
		s.input.Placeholder = "press Enter to skip"
		s.input.EchoMode = textinput.EchoNormal
	}

	s.configured = true
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.configured {
		if !s.configure(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.isOptional {
			return s, cmd
		}
		*s.target = val
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if !s.configured {
		return "Loading...\n"
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}
