// Package memory implements the three memory layers behind the supervisor:
// working memory (verbatim turns per thread), episodic memory (embedded
// exchanges for semantic recall) and long-term memory (goals and baselines).
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/internal/providers/embed"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type Working struct {
	turns  core.TurnsRepository
	window int
	budget int
}

func NewWorking(cfg *config.AppConfig, turns core.TurnsRepository) *Working {
	return &Working{
		turns:  turns,
		window: cfg.ContextWindowSize,
		budget: cfg.ContextTokenBudget,
	}
}

// Load returns the thread's recent turns, oldest first, trimmed to the token
// budget. A thread with no history yields a valid empty context.
func (w *Working) Load(ctx context.Context, threadID string) (core.ThreadContext, error) {
	turns, err := w.turns.RecentTurns(ctx, threadID, w.window)
	if err != nil {
		return core.ThreadContext{}, fmt.Errorf("load turns: %w", err)
	}

	kept := trimToBudget(turns, w.budget)
	if len(kept) < len(turns) {
		log.FromCtx(ctx).Debug().
			Str("thread_id", threadID).
			Int("dropped", len(turns)-len(kept)).
			Msg("trimmed working memory to token budget")
	}

	return core.ThreadContext{ThreadID: threadID, Turns: kept}, nil
}

func (w *Working) Save(ctx context.Context, threadID, role, content string) error {
	return w.turns.AppendTurn(ctx, threadID, core.Turn{
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

func (w *Working) Clear(ctx context.Context, threadID string) error {
	return w.turns.DeleteThread(ctx, threadID)
}

// trimToBudget keeps the newest turns whose combined token count fits the
// budget. The newest turn always survives, even oversized, so specialists
// never lose the question that was just asked.
func trimToBudget(turns []core.Turn, budget int) []core.Turn {
	if len(turns) == 0 || budget <= 0 {
		return turns
	}

	total := 0
	start := len(turns)
	for i := len(turns) - 1; i >= 0; i-- {
		tokens := embed.CountTokens(turns[i].Content)
		if total+tokens > budget && start < len(turns) {
			break
		}
		total += tokens
		start = i
	}

	return turns[start:]
}
