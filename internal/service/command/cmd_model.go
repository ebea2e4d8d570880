package command

import (
	"context"
	"fmt"
)

// ModelSwitcher is the slice of the LLM provider the command needs.
type ModelSwitcher interface {
	Provider() string
	Model() string
	SetModel(ctx context.Context, spec string) error
}

type ModelCommand struct {
	switcher  ModelSwitcher
	formatter *ResponseFormatter
}

func NewModelCommand(switcher ModelSwitcher) *ModelCommand {
	return &ModelCommand{
		switcher:  switcher,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show or change the current model"
}

func (c *ModelCommand) Execute(ctx context.Context, threadID, userID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Current Model"),
			c.formatter.Label("Provider", c.switcher.Provider()),
			c.formatter.Label("Model", c.switcher.Model()),
			c.formatter.Usage("/model [provider]/[model]"),
			c.formatter.Examples([]string{
				"/model openai/gpt-4o",
				"/model anthropic/claude-sonnet-4-20250514",
				"/model openrouter/openai/gpt-4o-mini",
			}),
		), nil
	}

	if err := c.switcher.SetModel(ctx, args[0]); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	return c.formatter.Success(fmt.Sprintf("Model changed to: `%s/%s`",
		c.switcher.Provider(), c.switcher.Model())), nil
}
