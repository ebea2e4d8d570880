// Package telegram is the Telegram ingress. Incoming text lands in the inbox
// and is answered later by the dispatcher; the bot handler itself never talks
// to the supervisor, so a slow model cannot block long polling.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	inbox   core.InboxRepository
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	inbox core.InboxRepository,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		inbox:   inbox,
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleText)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// Replier returns the outbound side for the dispatcher to answer through.
func (b *Bot) Replier() *Sender {
	return NewSender(b.bot)
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	msg := c.Message()

	in := core.InboundMessage{
		// Telegram message ids are only unique per chat, so the chat id is
		// part of the dedup key.
		ExternalID: fmt.Sprintf("%d:%d", c.Chat().ID, msg.ID),
		Transport:  core.TransportTelegram,
		ChannelID:  strconv.FormatInt(c.Chat().ID, 10),
		UserID:     strconv.FormatInt(c.Sender().ID, 10),
		Author:     authorName(c.Sender()),
		Text:       c.Text(),
		ReceivedAt: msg.Time(),
	}

	if err := b.inbox.Enqueue(ctx, in); err != nil {
		log.FromCtx(ctx).Error().Err(err).
			Str("external_id", in.ExternalID).
			Msg("failed to enqueue telegram message")
		return c.Send("I could not accept that message, please try again.")
	}

	// The answer arrives on the next dispatcher poll; typing is the ack.
	_ = c.Notify(tele.Typing)
	return nil
}

func authorName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
