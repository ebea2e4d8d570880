package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type MemoryConfig struct {
	// Episodic recall
	SearchLimit int `env:"PULSE_EPISODIC_SEARCH_LIMIT" envDefault:"5"`
	RecentLimit int `env:"PULSE_EPISODIC_RECENT_LIMIT" envDefault:"5"`

	// Baseline recomputation
	BaselineInterval time.Duration `env:"PULSE_BASELINE_INTERVAL" envDefault:"24h"`
	BaselineWindow   time.Duration `env:"PULSE_BASELINE_WINDOW" envDefault:"720h"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse memory config")
	}
	return c
}
