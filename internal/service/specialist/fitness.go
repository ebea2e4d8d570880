package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pulsebit/pulsebot/internal/core"
)

const fitnessPrompt = `You are the fitness coach of a personal health assistant.

You interpret the user's ring data: daily activity, readiness, workouts, stress and aerobic capacity. Always use your tools to look at real data, cite specific numbers and name the dates they come from.

Readiness score interpretation:
- 85+: excellent, a great day for high-intensity training
- 70-84: good, moderate exercise recommended
- 50-69: fair, prefer light activity or active recovery
- below 50: rest day strongly recommended

General guidelines: 10,000 steps is a sound daily target; 150 minutes of moderate activity per week matches the WHO recommendation. Weigh readiness against recent workouts before recommending training.

` + guardrails

func NewFitnessCoach(engine *Engine, fresh core.FreshnessChecker, health core.HealthRepository, baselines core.LongTermReader) *Agent {
	return &Agent{
		tag:       core.SpecFitness,
		primary:   []core.Domain{core.DomainActivity, core.DomainReadiness, core.DomainWorkout},
		secondary: []core.Domain{core.DomainStress, core.DomainVO2Max, core.DomainCardioAge},
		system:    fitnessPrompt,
		engine:    engine,
		fresh:     fresh,
		tools: func(q core.Query) *Toolset {
			summary := func(domain core.Domain, fallbackDays int) ToolFunc {
				return func(ctx context.Context, args json.RawMessage) (string, error) {
					days := parseDays(args, fallbackDays)
					since := time.Now().AddDate(0, 0, -days)

					samples, err := health.SamplesSince(ctx, q.UserID, domain, since)
					if err != nil {
						return "", fmt.Errorf("query %s samples: %w", domain, err)
					}
					return renderSamples(domain, samples, days), nil
				}
			}

			return NewToolset(
				def("activity_summary",
					"Daily activity samples: activity score plus steps and calorie details.",
					daysSchema, summary(core.DomainActivity, 7)),
				def("readiness_summary",
					"Daily readiness samples with recovery details.",
					daysSchema, summary(core.DomainReadiness, 7)),
				def("workout_list",
					"Recorded workouts with duration, type and intensity details.",
					daysSchema, summary(core.DomainWorkout, 7)),
				def("stress_summary",
					"Daytime stress samples.",
					daysSchema, summary(core.DomainStress, 7)),
				def("cardio_fitness",
					"Latest aerobic capacity: VO2 max and cardiovascular age, with the personal step baseline for context.",
					emptySchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						since := time.Now().AddDate(0, 0, -180)

						var b strings.Builder
						vo2, err := health.SamplesSince(ctx, q.UserID, core.DomainVO2Max, since)
						if err != nil {
							return "", fmt.Errorf("query vo2_max samples: %w", err)
						}
						if len(vo2) == 0 {
							b.WriteString("No VO2 max measurement in the last 180 days.")
						} else {
							last := vo2[len(vo2)-1]
							fmt.Fprintf(&b, "VO2 max: %.1f ml/kg/min (measured %s).", last.Value, last.Day.Format("2006-01-02"))
						}

						age, err := health.SamplesSince(ctx, q.UserID, core.DomainCardioAge, since)
						if err != nil {
							return "", fmt.Errorf("query cardio_age samples: %w", err)
						}
						if len(age) > 0 {
							last := age[len(age)-1]
							fmt.Fprintf(&b, "\nCardiovascular age: %.0f years (measured %s).", last.Value, last.Day.Format("2006-01-02"))
						}

						if bls, err := baselines.Baselines(ctx, q.UserID); err == nil {
							for _, bl := range bls {
								if bl.Metric == core.BaselineStepCount {
									fmt.Fprintf(&b, "\nBaseline daily steps: %.0f.", bl.Value)
								}
							}
						}

						return b.String(), nil
					}),
			)
		},
	}
}
