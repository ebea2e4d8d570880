// Package cli is the interactive terminal transport. Unlike Telegram it skips
// the inbox and calls the supervisor synchronously; the terminal is a single
// blocking conversation, so queueing would only add latency.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

// QueryProcessor answers one query end to end.
type QueryProcessor interface {
	Process(ctx context.Context, query core.Query) string
}

type ReadLine struct {
	cfg       *config.AppConfig
	processor QueryProcessor
	commands  core.CmdRouter
	threadID  string
	rl        *readline.Instance
}

func NewReadLine(cfg *config.AppConfig, processor QueryProcessor, commands core.CmdRouter) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		processor: processor,
		commands:  commands,
		threadID:  core.ThreadID(core.TransportCLI, "local", cfg.PrimaryUser),
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintln(r.rl.Stdout(), r.answer(ctx, line))
	}
}

// answer resolves one input line, slash commands first.
func (r *ReadLine) answer(ctx context.Context, line string) string {
	if r.commands != nil {
		if reply, handled := r.commands.Execute(ctx, r.threadID, r.cfg.PrimaryUser, line); handled {
			return reply
		}
	}

	return r.processor.Process(ctx, core.Query{
		ID:         uuid.NewString(),
		ThreadID:   r.threadID,
		UserID:     r.cfg.PrimaryUser,
		Author:     r.cfg.PrimaryUser,
		Text:       line,
		ReceivedAt: time.Now(),
	})
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
