package specialist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/internal/service/freshness"
)

const auditorPrompt = `You are the data auditor of a personal health assistant.

You verify data quality: is the ring syncing, how old is each data domain, what is stored at all. You never interpret health data or give health advice; other specialists do that. Be precise about dates and ages. When something is stale, walk the user through the usual fixes: open the companion app and let it sync, check Bluetooth, check the ring battery, update the app. When everything is current, say so confidently.

You are also the fallback for requests that could not be classified. In that case, say what you can and cannot help with and name the specialist that fits: sleep_analyst for sleep, fitness_coach for activity and workouts, memory_keeper for goals and past conversations.

` + guardrails

// NewDataAuditor builds the meta-domain specialist. It owns no health
// domain for the pre-answer staleness gate; its whole toolset IS the
// freshness machinery, so the report shows up in the answer body instead
// of the warning list.
func NewDataAuditor(engine *Engine, fresh core.FreshnessChecker, health core.HealthRepository) *Agent {
	return &Agent{
		tag:    core.SpecAuditor,
		system: auditorPrompt,
		engine: engine,
		fresh:  fresh,
		tools: func(q core.Query) *Toolset {
			return NewToolset(
				def("freshness_report",
					"Staleness verdict for every data domain: last seen date and threshold.",
					emptySchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						return freshness.RenderReport(fresh.Report(ctx, q.UserID)), nil
					}),
				def("record_counts",
					"How many records are stored per data domain.",
					emptySchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						counts, err := health.CountByDomain(ctx, q.UserID)
						if err != nil {
							return "", fmt.Errorf("count records: %w", err)
						}
						return renderCounts(counts), nil
					}),
			)
		},
	}
}
