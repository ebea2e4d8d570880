package command

import (
	"context"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
)

type StatusCommand struct {
	fresh     core.FreshnessChecker
	formatter *ResponseFormatter
}

func NewStatusCommand(fresh core.FreshnessChecker) *StatusCommand {
	return &StatusCommand{
		fresh:     fresh,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatusCommand) Name() string {
	return "status"
}

func (c *StatusCommand) Description() string {
	return "Show data freshness for every domain"
}

func (c *StatusCommand) Execute(ctx context.Context, threadID, userID string, args []string) (string, error) {
	results := c.fresh.Report(ctx, userID)

	items := make([]string, 0, len(results))
	stale := 0
	for _, r := range results {
		items = append(items, statusLine(r))
		if r.Stale() {
			stale++
		}
	}

	sections := []string{
		c.formatter.Info("Data Status"),
		c.formatter.List(items),
	}
	if stale > 0 {
		sections = append(sections, c.formatter.Tip("Open the ring app and let it sync, then check again."))
	} else {
		sections = append(sections, c.formatter.Success("All domains are up to date"))
	}

	return c.formatter.Combine(sections...), nil
}

func statusLine(r core.FreshnessResult) string {
	switch {
	case r.Missing:
		return fmt.Sprintf("❌ %s: no data", r.Domain)
	case r.Stale():
		return fmt.Sprintf("⚠️ %s: %d days old (last %s)",
			r.Domain, int(r.Age.Hours()/24), r.LastSeen.Format("2006-01-02"))
	default:
		return fmt.Sprintf("✅ %s: last %s", r.Domain, r.LastSeen.Format("2006-01-02"))
	}
}
