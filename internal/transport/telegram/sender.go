package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/conv"
	"github.com/pulsebit/pulsebot/pkg/log"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// Sender is the outbound half of the transport. The dispatcher hands it the
// original inbox message so replies land in the chat the question came from.
type Sender struct {
	bot *tele.Bot
}

func NewSender(bot *tele.Bot) *Sender {
	return &Sender{bot: bot}
}

func (s *Sender) Reply(ctx context.Context, msg core.InboundMessage, text string) error {
	chatID, err := strconv.ParseInt(msg.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram channel id %q: %w", msg.ChannelID, err)
	}
	return s.sendMarkdown(ctx, tele.ChatID(chatID), text)
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
func (s *Sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		if _, err := s.bot.Send(to, chunk, tele.ModeHTML); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) in the second half of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
