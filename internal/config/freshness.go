package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

// FreshnessConfig carries the per-domain staleness thresholds. Defaults follow
// the ring's sync cadence: daily biometrics land within two days, composite
// scores every morning, workouts whenever one happens, slow metrics monthly.
type FreshnessConfig struct {
	Sleep      time.Duration `env:"PULSE_FRESHNESS_SLEEP" envDefault:"48h"`
	Activity   time.Duration `env:"PULSE_FRESHNESS_ACTIVITY" envDefault:"48h"`
	SleepScore time.Duration `env:"PULSE_FRESHNESS_SLEEP_SCORE" envDefault:"24h"`
	Readiness  time.Duration `env:"PULSE_FRESHNESS_READINESS" envDefault:"24h"`
	Workout    time.Duration `env:"PULSE_FRESHNESS_WORKOUT" envDefault:"168h"`
	Stress     time.Duration `env:"PULSE_FRESHNESS_STRESS" envDefault:"48h"`
	SpO2       time.Duration `env:"PULSE_FRESHNESS_SPO2" envDefault:"48h"`
	VO2Max     time.Duration `env:"PULSE_FRESHNESS_VO2_MAX" envDefault:"720h"`
	CardioAge  time.Duration `env:"PULSE_FRESHNESS_CARDIO_AGE" envDefault:"2160h"`
}

func NewFreshnessConfig(ctx context.Context) *FreshnessConfig {
	c := &FreshnessConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse freshness config")
	}
	return c
}

// Thresholds flattens the config into the table the validator consumes.
func (c *FreshnessConfig) Thresholds() map[core.Domain]time.Duration {
	return map[core.Domain]time.Duration{
		core.DomainSleep:      c.Sleep,
		core.DomainActivity:   c.Activity,
		core.DomainSleepScore: c.SleepScore,
		core.DomainReadiness:  c.Readiness,
		core.DomainWorkout:    c.Workout,
		core.DomainStress:     c.Stress,
		core.DomainSpO2:       c.SpO2,
		core.DomainVO2Max:     c.VO2Max,
		core.DomainCardioAge:  c.CardioAge,
	}
}
