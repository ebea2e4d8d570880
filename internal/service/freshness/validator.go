// Package freshness decides whether stored ring data is recent enough to
// reason about. Every answer that touches health data runs through here
// first; a stale or missing domain becomes a warning the user always sees.
package freshness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type Validator struct {
	health     core.HealthRepository
	thresholds map[core.Domain]time.Duration
}

func NewValidator(cfg *config.FreshnessConfig, health core.HealthRepository) *Validator {
	return &Validator{
		health:     health,
		thresholds: cfg.Thresholds(),
	}
}

// Check verifies a single domain. Lookup failures degrade to a missing
// verdict instead of an error so callers never skip the staleness gate.
func (v *Validator) Check(ctx context.Context, userID string, domain core.Domain) core.FreshnessResult {
	res := core.FreshnessResult{
		Domain:    domain,
		Missing:   true,
		Threshold: v.thresholds[domain],
	}

	last, err := v.health.LastRecordedAt(ctx, userID, domain)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).
			Str("domain", string(domain)).
			Msg("freshness lookup failed, reporting domain as missing")
		return res
	}
	if last.IsZero() {
		return res
	}

	res.Missing = false
	res.LastSeen = last
	res.Age = time.Since(last)
	return res
}

// Report checks every known domain, in table order.
func (v *Validator) Report(ctx context.Context, userID string) []core.FreshnessResult {
	domains := core.AllDomains()
	results := make([]core.FreshnessResult, 0, len(domains))
	for _, d := range domains {
		results = append(results, v.Check(ctx, userID, d))
	}
	return results
}

// RenderReport formats results as one line per domain. Shared by the data
// auditor's report tool and the /status command.
func RenderReport(results []core.FreshnessResult) string {
	var b strings.Builder
	for _, r := range results {
		switch {
		case r.Missing:
			fmt.Fprintf(&b, "%s: no data\n", r.Domain)
		case r.Stale():
			fmt.Fprintf(&b, "%s: STALE, last %s (threshold %s)\n",
				r.Domain, r.LastSeen.Format("2006-01-02"), formatThreshold(r.Threshold))
		default:
			fmt.Fprintf(&b, "%s: ok, last %s\n", r.Domain, r.LastSeen.Format("2006-01-02"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatThreshold(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days < 1 {
		return d.String()
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
