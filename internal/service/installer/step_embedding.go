package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type embeddingChoice struct {
	id    string
	label string
	desc  string
}

// EmbeddingStep selects where episodic memory vectors come from.
type EmbeddingStep struct {
	choices []embeddingChoice
	cursor  int
}

func NewEmbeddingStep() Step {
	return &EmbeddingStep{
		choices: []embeddingChoice{
			{
				id:    "ollama",
				label: "Ollama server",
				desc:  "uses nomic-embed-text, needs a running Ollama",
			},
			{
				id:    "local",
				label: "Local GGUF model",
				desc:  "runs in-process, downloads ~300MB once",
			},
		},
		cursor: 0,
	}
}

func (s *EmbeddingStep) Init() tea.Cmd {
	return nil
}

func (s *EmbeddingStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
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
			state.Embedding.Provider = s.choices[s.cursor].id
			return nil, nil
		}
	}
	return s, nil
}

func (s *EmbeddingStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select your Embedding Backend (for episodic memory):\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
			b.WriteString(selStyle.Render(fmt.Sprintf("%s %s (%s)", cursor, choice.label, choice.desc)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s (%s)", cursor, choice.label, choice.desc)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
