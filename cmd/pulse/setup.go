package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/internal/providers/embed"
	"github.com/pulsebit/pulsebot/internal/providers/llm"
	"github.com/pulsebit/pulsebot/internal/service/command"
	"github.com/pulsebit/pulsebot/internal/service/dispatch"
	"github.com/pulsebit/pulsebot/internal/service/freshness"
	"github.com/pulsebit/pulsebot/internal/service/memory"
	"github.com/pulsebit/pulsebot/internal/service/specialist"
	"github.com/pulsebit/pulsebot/internal/service/supervisor"
	"github.com/pulsebit/pulsebot/internal/storage/sqlite"
	"github.com/pulsebit/pulsebot/internal/transport/cli"
	"github.com/pulsebit/pulsebot/internal/transport/telegram"
	"github.com/pulsebit/pulsebot/pkg/log"
	"github.com/pulsebit/pulsebot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	embCfg := config.NewEmbeddingConfig(ctx)
	freshCfg := config.NewFreshnessConfig(ctx)
	memCfg := config.NewMemoryConfig(ctx)
	dispatchCfg := config.NewDispatchConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	inboxRepo := sqlite.NewInboxRepo(db)
	turnsRepo := sqlite.NewTurnsRepo(db)
	episodeRepo := sqlite.NewEpisodeRepo(db)
	goalsRepo := sqlite.NewGoalsRepo(db)
	healthRepo := sqlite.NewHealthRepo(db)

	// 3. AI Provider (hot-swappable through /model)
	aiProvider, err := llm.NewDynamicProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Embedder
	embedder, err := embed.NewEmbedder(embCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	if closer, ok := embedder.(interface{ Close() error }); ok {
		services = append(services, srv.NewCleanup(closer.Close))
	}

	// 5. Memory layers
	working := memory.NewWorking(appCfg, turnsRepo)
	episodic := memory.NewEpisodic(embCfg, episodeRepo, embedder)
	longterm := memory.NewLongTerm(goalsRepo)

	// 6. Baseline Worker
	// Recomputes rolling per-metric baselines the specialists compare against
	services = append(services, memory.NewBaselineWorker(memCfg, appCfg, longterm, healthRepo))

	// 7. Freshness Validator
	validator := freshness.NewValidator(freshCfg, healthRepo)

	// 8. Specialists
	engine := specialist.NewEngine(llmCfg, aiProvider)
	specialists := []core.Specialist{
		specialist.NewSleepAnalyst(engine, validator, healthRepo, longterm),
		specialist.NewFitnessCoach(engine, validator, healthRepo, longterm),
		specialist.NewMemoryKeeper(memCfg, engine, validator, longterm, episodic),
		specialist.NewDataAuditor(engine, validator, healthRepo),
	}

	// 9. Supervisor
	sup := supervisor.New(llmCfg, aiProvider, working, episodic, specialists...)

	// 10. Slash commands
	commands := command.New(command.NewCommands(validator, longterm, working, aiProvider))

	// 11. Transports
	transports, repliers, err := initTransports(ctx, appCfg, sup, commands, inboxRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	// 12. Dispatcher drains the inbox and answers through the repliers
	services = append(services, dispatch.NewDispatcher(dispatchCfg, nil, inboxRepo, commands, sup, repliers))

	return services
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	sup *supervisor.Supervisor,
	commands core.CmdRouter,
	inbox core.InboxRepository,
) ([]srv.Service, map[string]dispatch.Replier, error) {
	var services []srv.Service
	repliers := make(map[string]dispatch.Replier)

	// Telegram Bot
	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, inbox)
		if err != nil {
			return nil, nil, err
		}
		services = append(services, bot)
		repliers[core.TransportTelegram] = bot.Replier()
	}

	// Terminal REPL answers synchronously, off the inbox path
	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(cfg, sup, commands)
		if err != nil {
			return nil, nil, err
		}
		services = append(services, rl)
	}

	return services, repliers, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
