package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type AppConfig struct {
	RuntimePath string

	// Transport flags
	EnableTelegram bool `env:"PULSE_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"PULSE_ENABLE_CLI" envDefault:"true"`

	// PrimaryUser keys health data and goals for the CLI transport and the
	// ingest command. Telegram threads use the sender id instead.
	PrimaryUser string `env:"PULSE_PRIMARY_USER" envDefault:"local"`

	// Context management for working memory
	ContextWindowSize  int `env:"PULSE_CONTEXT_WINDOW_SIZE" envDefault:"30"`
	ContextTokenBudget int `env:"PULSE_CONTEXT_TOKEN_BUDGET" envDefault:"2400"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse app config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "pulsebot.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
