package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/pulsebit/pulsebot/internal/core"
)

type HelpCommand struct {
	others    []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(others []core.Command) *HelpCommand {
	return &HelpCommand{
		others:    others,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, threadID, userID string, args []string) (string, error) {
	all := append([]core.Command{c}, c.others...)
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })

	items := make([]string, 0, len(all))
	for _, cmd := range all {
		items = append(items, fmt.Sprintf("`/%s`  %s", cmd.Name(), cmd.Description()))
	}

	return c.formatter.Combine(
		c.formatter.Info(core.PulseName+" Commands"),
		c.formatter.List(items),
		c.formatter.Tip("Anything else is treated as a health question, try \"How did I sleep?\""),
	), nil
}
