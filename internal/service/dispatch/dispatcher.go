// Package dispatch runs the outer poll loop: pull unseen inbox messages,
// claim each one before processing, answer through the supervisor, mark
// answered. Claiming first means a crash mid-processing leaves a message
// unanswered rather than answered twice.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
	"github.com/pulsebit/pulsebot/pkg/retry"
)

// QueryProcessor answers one query. Process never fails; total specialist
// failure comes back as a user-facing notice.
type QueryProcessor interface {
	Process(ctx context.Context, query core.Query) string
}

// Replier delivers one reply on the transport a message arrived through.
type Replier interface {
	Reply(ctx context.Context, msg core.InboundMessage, text string) error
}

type Dispatcher struct {
	inbox     core.InboxRepository
	commands  core.CmdRouter
	processor QueryProcessor
	repliers  map[string]Replier
	retrier   *retry.Retrier
	interval  time.Duration
	batch     int
}

func NewDispatcher(
	cfg *config.DispatchConfig,
	retryCfg *retry.Config,
	inbox core.InboxRepository,
	commands core.CmdRouter,
	processor QueryProcessor,
	repliers map[string]Replier,
) *Dispatcher {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Dispatcher{
		inbox:     inbox,
		commands:  commands,
		processor: processor,
		repliers:  repliers,
		retrier:   retry.NewRetrier(retryCfg),
		interval:  cfg.PollInterval,
		batch:     cfg.BatchSize,
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "dispatcher").Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Dur("interval", d.interval).Msg("starting dispatcher")

	if err := d.poll(ctx); err != nil {
		logger.Error().Err(err).Msg("poll failed")
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down dispatcher")
			return nil
		case <-ticker.C:
			if err := d.poll(ctx); err != nil {
				logger.Error().Err(err).Msg("poll failed")
			}
		}
	}
}

func (d *Dispatcher) Shutdown(ctx context.Context) error {
	return nil
}

// poll drains one batch. Messages are handled strictly one at a time, in
// arrival order; concurrency lives inside the supervisor, not here.
func (d *Dispatcher) poll(ctx context.Context) error {
	msgs, err := d.inbox.FetchUnseen(ctx, d.batch)
	if err != nil {
		return fmt.Errorf("fetch unseen: %w", err)
	}

	for _, msg := range msgs {
		if ctx.Err() != nil {
			return nil
		}
		d.handle(ctx, msg)
	}
	return nil
}

func (d *Dispatcher) handle(ctx context.Context, msg core.InboundMessage) {
	logger := log.FromCtx(ctx).With().
		Int64("message_id", msg.ID).
		Str("transport", msg.Transport).
		Logger()

	claimed, err := d.inbox.Claim(ctx, msg.ID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to claim message")
		return
	}
	if !claimed {
		logger.Debug().Msg("message already claimed, skipping")
		return
	}

	query := core.Query{
		ID:         uuid.NewString(),
		ThreadID:   core.ThreadID(msg.Transport, msg.ChannelID, msg.UserID),
		UserID:     msg.UserID,
		Author:     msg.Author,
		Text:       msg.Text,
		ReceivedAt: msg.ReceivedAt,
	}
	ctx = logger.With().Str("query_id", query.ID).Logger().WithContext(ctx)

	reply, handled := "", false
	if d.commands != nil {
		reply, handled = d.commands.Execute(ctx, query.ThreadID, query.UserID, msg.Text)
	}
	if !handled {
		reply = d.processor.Process(ctx, query)
	}

	if !d.send(ctx, msg, reply) {
		// The message stays claimed: better an unanswered question than
		// a duplicate answer on the next poll.
		return
	}

	if err := d.inbox.MarkAnswered(ctx, msg.ID); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to mark message answered")
		return
	}
	log.FromCtx(ctx).Info().Bool("command", handled).Msg("message answered")
}

func (d *Dispatcher) send(ctx context.Context, msg core.InboundMessage, text string) bool {
	logger := log.FromCtx(ctx)

	replier, ok := d.repliers[msg.Transport]
	if !ok {
		logger.Error().Msg("no replier registered for transport")
		return false
	}

	err := d.retrier.Do(ctx, func() error {
		return replier.Reply(ctx, msg, text)
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send reply")
		return false
	}
	return true
}
