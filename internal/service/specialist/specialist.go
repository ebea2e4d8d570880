// Package specialist implements the four domain agents behind the
// supervisor. All share one engine and one fail-closed contract; they
// differ only in system prompt, owned domains and toolset.
package specialist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

// Agent is one specialist variant. Primary domains are freshness-checked on
// every query; secondary domains only when the query mentions them.
type Agent struct {
	tag       core.SpecialistTag
	primary   []core.Domain
	secondary []core.Domain
	system    string
	engine    *Engine
	fresh     core.FreshnessChecker
	tools     func(core.Query) *Toolset
}

func (a *Agent) Tag() core.SpecialistTag {
	return a.tag
}

// Domains returns everything the agent owns, primary first.
func (a *Agent) Domains() []core.Domain {
	out := make([]core.Domain, 0, len(a.primary)+len(a.secondary))
	out = append(out, a.primary...)
	return append(out, a.secondary...)
}

// Handle runs the query through the staleness gate and the chat loop. It
// never returns an error: any failure, including a per-specialist timeout,
// becomes a degraded response the supervisor can merge like any other.
func (a *Agent) Handle(ctx context.Context, query core.Query, thread core.ThreadContext) core.SpecialistResponse {
	logger := log.FromCtx(ctx).With().Str("specialist", string(a.tag)).Logger()

	warnings := a.checkFreshness(ctx, query)

	text, err := a.engine.Run(ctx, a.system, thread, query, a.tools(query))
	if err != nil {
		logger.Error().Err(err).Str("query_id", query.ID).Msg("specialist failed")
		return core.SpecialistResponse{
			Tag:      a.tag,
			Text:     degradedText(a.tag, err),
			Warnings: warnings,
			Failed:   true,
		}
	}

	logger.Debug().Str("query_id", query.ID).Int("warnings", len(warnings)).Msg("specialist answered")
	return core.SpecialistResponse{
		Tag:      a.tag,
		Text:     text,
		Warnings: warnings,
	}
}

func (a *Agent) checkFreshness(ctx context.Context, query core.Query) []core.FreshnessResult {
	var warnings []core.FreshnessResult
	for _, d := range a.primary {
		if res := a.fresh.Check(ctx, query.UserID, d); res.Stale() {
			warnings = append(warnings, res)
		}
	}
	for _, d := range a.secondary {
		if !core.MentionsDomain(query.Text, d) {
			continue
		}
		if res := a.fresh.Check(ctx, query.UserID, d); res.Stale() {
			warnings = append(warnings, res)
		}
	}
	return warnings
}

func degradedText(tag core.SpecialistTag, err error) string {
	name := strings.ReplaceAll(string(tag), "_", " ")
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("The %s could not complete in time.", name)
	}
	return fmt.Sprintf("The %s ran into a problem and could not answer this time.", name)
}

// guardrails is appended to every specialist prompt. Content policy, not
// mechanics: the hard boundary is the toolset.
const guardrails = `Safety boundaries:
- Never diagnose medical conditions. If the user mentions concerning symptoms, suggest seeing a doctor.
- The ring is a wellness device, not a medical diagnostic tool. Say so when interpreting unusual readings.
- Stay within your domain. If a question belongs elsewhere, decline and name the right specialist: sleep_analyst for sleep, fitness_coach for activity and workouts, memory_keeper for goals and past conversations, data_auditor for sync and data quality.
- When data is stale or missing, say so plainly instead of answering from outdated numbers.`
