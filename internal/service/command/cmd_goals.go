package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/pulsebit/pulsebot/internal/core"
)

type GoalsCommand struct {
	store     core.LongTermReader
	formatter *ResponseFormatter
}

func NewGoalsCommand(store core.LongTermReader) *GoalsCommand {
	return &GoalsCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *GoalsCommand) Name() string {
	return "goals"
}

func (c *GoalsCommand) Description() string {
	return "Show your goals and personal baselines"
}

func (c *GoalsCommand) Execute(ctx context.Context, threadID, userID string, args []string) (string, error) {
	goals, err := c.store.Goals(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load goals: %w", err)
	}
	baselines, err := c.store.Baselines(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load baselines: %w", err)
	}

	sections := []string{c.formatter.Info("Goals & Baselines")}

	if len(goals) == 0 {
		sections = append(sections,
			c.formatter.Tip("No goals yet. Tell me something like \"set a sleep goal of 8 hours\"."))
	} else {
		items := make([]string, 0, len(goals))
		for _, g := range goals {
			items = append(items, fmt.Sprintf("%s  ›  %s (updated %s)",
				humanGoalType(g.Type), g.Value, g.UpdatedAt.Format("2006-01-02")))
		}
		sections = append(sections, c.formatter.List(items))
	}

	if len(baselines) > 0 {
		items := make([]string, 0, len(baselines))
		for _, b := range baselines {
			items = append(items, fmt.Sprintf("%s  ›  %.1f", b.Metric, b.Value))
		}
		sections = append(sections, c.formatter.Section("📊", "30-day baselines", c.formatter.List(items)))
	}

	return c.formatter.Combine(sections...), nil
}

func humanGoalType(t core.GoalType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}
