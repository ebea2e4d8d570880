package specialist

import (
	"fmt"
	"strings"

	"github.com/pulsebit/pulsebot/internal/core"
)

// Tool results are plain text for the model, one fact per line, dates
// always spelled out so the model can cite them.

func renderSamples(domain core.Domain, samples []core.HealthSample, days int) string {
	if len(samples) == 0 {
		return fmt.Sprintf("No %s samples in the last %d days.", domain, days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s samples over the last %d days:\n", domain, days)
	for _, s := range samples {
		fmt.Fprintf(&b, "- %s: %.1f", s.Day.Format("2006-01-02"), s.Value)
		if s.Detail != "" {
			fmt.Fprintf(&b, " %s", s.Detail)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderGoals(goals []core.Goal) string {
	if len(goals) == 0 {
		return "No goals set yet."
	}

	var b strings.Builder
	b.WriteString("Current goals:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: %s (updated %s)\n", g.Type, g.Value, g.UpdatedAt.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBaselines(baselines []core.Baseline) string {
	if len(baselines) == 0 {
		return "No baselines computed yet. Baselines appear once enough ring data has been ingested."
	}

	var b strings.Builder
	b.WriteString("Personal baselines (30-day averages):\n")
	for _, bl := range baselines {
		fmt.Fprintf(&b, "- %s: %.1f (computed %s)\n", bl.Metric, bl.Value, bl.ComputedAt.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderEpisodes(entries []core.EpisodicEntry) string {
	if len(entries) == 0 {
		return "No matching past conversations."
	}

	var b strings.Builder
	b.WriteString("Past conversations:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- [%s] %s\n", e.CreatedAt.Format("2006-01-02"), e.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCounts(counts map[core.Domain]int64) string {
	var b strings.Builder
	b.WriteString("Stored records per domain:\n")
	total := int64(0)
	for _, d := range core.AllDomains() {
		fmt.Fprintf(&b, "- %s: %d\n", d, counts[d])
		total += counts[d]
	}
	fmt.Fprintf(&b, "Total: %d", total)
	return b.String()
}
