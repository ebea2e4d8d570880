package installer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pulsebit/pulsebot/internal/providers/llm"
)

// ModelStep picks the model. OpenRouter exposes a catalog endpoint, so for
// that provider the step fetches a filterable list; everyone else gets a
// free-form field with the provider's usual default as placeholder.
type ModelStep struct {
	list       list.Model
	input      textinput.Model
	configured bool
	freeform   bool
	loading    bool
	fetching   bool
	err        error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list: l,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *ModelStep) configure(state *InstallState) tea.Cmd {
	s.configured = true

	if state.LLM.Provider == "openrouter" {
		s.loading = true
		// Another wake-up so the fetch block below runs without user input
		return func() tea.Msg { return nextMsg{} }
	}

	s.freeform = true
	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 50

	switch state.LLM.Provider {
	case "anthropic":
		s.input.Placeholder = "claude-sonnet-4-20250514"
	case "openai":
		s.input.Placeholder = "gpt-4o"
	case "ollama":
		s.input.Placeholder = "llama3.1"
	}
	return textinput.Blink
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.configured {
		return s, s.configure(state)
	}

	if s.freeform {
		return s.updateFreeform(msg, state)
	}

	// Trigger the catalog fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true
		apiKey := state.LLM.OpenRouterAPIKey

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			models, err := llm.NewOpenRouter(apiKey, "").Models(ctx)
			if err != nil {
				return errMsg(err)
			}

			items := make([]list.Item, 0, len(models))
			for _, mod := range models {
				items = append(items, item{
					id:    mod.ID,
					title: mod.Name,
					desc:  fmt.Sprintf("ID: %s | Context: %d", mod.ID, mod.ContextLength),
				})
			}
			return modelsMsg(items)
		}
	}

	// Update list size
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil // Return nil command to break the error loop

	case tea.KeyMsg:
		// If there's an error, allow retry with Enter
		if s.err != nil {
			if msg.String() == "enter" {
				s.err = nil
				s.loading = true
				s.fetching = false
				return s, func() tea.Msg { return nextMsg{} }
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.LLM.Model = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) updateFreeform(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.input.Placeholder
		}
		if val == "" {
			return s, cmd
		}
		state.LLM.Model = val
		return nil, nil
	}
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.freeform {
		return "Enter the model name:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
	}
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and internet connection.\n\n(press enter to retry, ctrl+c to quit)\n"
	}
	if s.loading {
		return "Fetching models from OpenRouter...\n"
	}
	return s.list.View()
}
