package command

import (
	"context"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
)

// ForgetCommand drops the working-memory turns of the current thread. Goals,
// baselines and episodic memory are untouched; this only resets the running
// conversation.
type ForgetCommand struct {
	working   core.WorkingMemory
	formatter *ResponseFormatter
}

func NewForgetCommand(working core.WorkingMemory) *ForgetCommand {
	return &ForgetCommand{
		working:   working,
		formatter: NewResponseFormatter(),
	}
}

func (c *ForgetCommand) Name() string {
	return "forget"
}

func (c *ForgetCommand) Description() string {
	return "Clear the current conversation context"
}

func (c *ForgetCommand) Execute(ctx context.Context, threadID, userID string, args []string) (string, error) {
	if err := c.working.Clear(ctx, threadID); err != nil {
		return "", fmt.Errorf("failed to clear conversation: %w", err)
	}
	return c.formatter.Success("Conversation context cleared"), nil
}
