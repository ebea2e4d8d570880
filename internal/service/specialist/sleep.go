package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pulsebit/pulsebot/internal/core"
)

const sleepPrompt = `You are the sleep analyst of a personal health assistant.

You interpret the user's ring data: sleep duration, efficiency, stages, overnight heart metrics and blood oxygen. Always use your tools to look at real data, cite specific numbers and name the dates they come from.

Sleep score interpretation:
- 85+: excellent sleep
- 70-84: good sleep, minor areas to improve
- 50-69: fair sleep, consider sleep hygiene changes
- below 50: poor sleep, suggest a sleep specialist if it persists

Deep sleep should be 13-23% of the night, REM 20-25%.

` + guardrails

func NewSleepAnalyst(engine *Engine, fresh core.FreshnessChecker, health core.HealthRepository, baselines core.LongTermReader) *Agent {
	return &Agent{
		tag:       core.SpecSleep,
		primary:   []core.Domain{core.DomainSleep, core.DomainSleepScore},
		secondary: []core.Domain{core.DomainSpO2},
		system:    sleepPrompt,
		engine:    engine,
		fresh:     fresh,
		tools: func(q core.Query) *Toolset {
			return NewToolset(
				def("sleep_summary",
					"Per-night sleep samples: duration in hours plus efficiency, HRV and resting heart rate details.",
					daysSchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						days := parseDays(args, 7)
						since := time.Now().AddDate(0, 0, -days)

						nights, err := health.SamplesSince(ctx, q.UserID, core.DomainSleep, since)
						if err != nil {
							return "", fmt.Errorf("query sleep samples: %w", err)
						}
						scores, err := health.SamplesSince(ctx, q.UserID, core.DomainSleepScore, since)
						if err != nil {
							return "", fmt.Errorf("query sleep scores: %w", err)
						}

						return renderSamples(core.DomainSleep, nights, days) + "\n\n" +
							renderSamples(core.DomainSleepScore, scores, days), nil
					}),
				def("sleep_trend",
					"Average sleep duration and score over a window, compared against the personal baseline.",
					daysSchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						days := parseDays(args, 14)
						since := time.Now().AddDate(0, 0, -days)

						avgDur, nights, err := health.AverageValue(ctx, q.UserID, core.DomainSleep, since)
						if err != nil {
							return "", fmt.Errorf("average sleep: %w", err)
						}
						if nights == 0 {
							return fmt.Sprintf("No sleep samples in the last %d days.", days), nil
						}

						var b strings.Builder
						fmt.Fprintf(&b, "Last %d days: average sleep %.1fh over %d nights.", days, avgDur, nights)

						if avgScore, n, err := health.AverageValue(ctx, q.UserID, core.DomainSleepScore, since); err == nil && n > 0 {
							fmt.Fprintf(&b, " Average sleep score %.0f.", avgScore)
						}

						if bls, err := baselines.Baselines(ctx, q.UserID); err == nil {
							for _, bl := range bls {
								if bl.Metric == core.BaselineSleepDuration {
									fmt.Fprintf(&b, "\nPersonal baseline: %.1fh per night (window average is %+.1fh vs baseline).",
										bl.Value, avgDur-bl.Value)
								}
							}
						}

						return b.String(), nil
					}),
				def("spo2_summary",
					"Overnight blood oxygen (SpO2) samples.",
					daysSchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						days := parseDays(args, 7)
						since := time.Now().AddDate(0, 0, -days)

						samples, err := health.SamplesSince(ctx, q.UserID, core.DomainSpO2, since)
						if err != nil {
							return "", fmt.Errorf("query spo2 samples: %w", err)
						}
						return renderSamples(core.DomainSpO2, samples, days), nil
					}),
			)
		},
	}
}
