package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type DispatchConfig struct {
	PollInterval time.Duration `env:"PULSE_POLL_INTERVAL" envDefault:"30s"`
	BatchSize    int           `env:"PULSE_POLL_BATCH_SIZE" envDefault:"20"`
}

func NewDispatchConfig(ctx context.Context) *DispatchConfig {
	c := &DispatchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse dispatch config")
	}
	return c
}
