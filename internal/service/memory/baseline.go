package memory

import (
	"context"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

// baselineSource maps one stored baseline metric to the health samples it
// averages. An empty field means the sample's headline value, otherwise the
// named field of the detail JSON.
type baselineSource struct {
	metric string
	domain core.Domain
	field  string
}

func baselineSources() []baselineSource {
	return []baselineSource{
		{core.BaselineHRVAvg, core.DomainSleep, "hrv_avg"},
		{core.BaselineRestingHR, core.DomainSleep, "resting_hr"},
		{core.BaselineSleepEfficiency, core.DomainSleep, "efficiency"},
		{core.BaselineSleepDuration, core.DomainSleep, ""},
		{core.BaselineStepCount, core.DomainActivity, "steps"},
		{core.BaselineReadiness, core.DomainReadiness, ""},
		{core.BaselineActivityScore, core.DomainActivity, ""},
	}
}

// BaselineWorker recomputes personal baselines from the trailing sample
// window. Specialists compare today's numbers against these instead of
// population norms.
type BaselineWorker struct {
	store    core.LongTermStore
	health   core.HealthRepository
	userID   string
	interval time.Duration
	window   time.Duration
}

func NewBaselineWorker(cfg *config.MemoryConfig, app *config.AppConfig, store core.LongTermStore, health core.HealthRepository) *BaselineWorker {
	return &BaselineWorker{
		store:    store,
		health:   health,
		userID:   app.PrimaryUser,
		interval: cfg.BaselineInterval,
		window:   cfg.BaselineWindow,
	}
}

func (w *BaselineWorker) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "baseline_worker").Logger()
	logger.Info().Dur("interval", w.interval).Msg("starting baseline worker")

	// First pass right away so a fresh install gets baselines without
	// waiting a full interval.
	if err := w.recompute(ctx); err != nil {
		logger.Error().Err(err).Msg("initial baseline pass failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down baseline worker")
			return nil
		case <-ticker.C:
			if err := w.recompute(ctx); err != nil {
				logger.Error().Err(err).Msg("baseline recomputation failed")
			}
		}
	}
}

func (w *BaselineWorker) Shutdown(ctx context.Context) error {
	return nil
}

func (w *BaselineWorker) recompute(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	since := time.Now().Add(-w.window)

	for _, src := range baselineSources() {
		var (
			avg   float64
			count int64
			err   error
		)
		if src.field == "" {
			avg, count, err = w.health.AverageValue(ctx, w.userID, src.domain, since)
		} else {
			avg, count, err = w.health.AverageDetail(ctx, w.userID, src.domain, src.field, since)
		}
		if err != nil {
			logger.Warn().Err(err).Str("metric", src.metric).Msg("failed to average samples")
			continue
		}
		if count == 0 {
			continue
		}

		if err := w.store.SetBaseline(ctx, w.userID, src.metric, avg); err != nil {
			logger.Error().Err(err).Str("metric", src.metric).Msg("failed to save baseline")
			continue
		}
		logger.Debug().
			Str("metric", src.metric).
			Float64("value", avg).
			Int64("samples", count).
			Msg("baseline updated")
	}

	return nil
}
