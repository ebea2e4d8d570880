package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

func (r *TurnsRepo) AppendTurn(ctx context.Context, threadID string, turn core.Turn) error {
	query := `INSERT INTO thread_turns (thread_id, role, content) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, threadID, turn.Role, turn.Content); err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

func (r *TurnsRepo) RecentTurns(ctx context.Context, threadID string, limit int) ([]core.Turn, error) {
	// Fetch the LAST 'limit' turns by ordering DESC
	query := `SELECT id, thread_id, role, content, created_at
		FROM thread_turns WHERE thread_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, threadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		if err := rows.Scan(&t.ID, &t.ThreadID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse back to chronological order (oldest -> newest) for the LLM.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Str("thread", threadID).Msg("loaded thread turns")
	return turns, nil
}

func (r *TurnsRepo) DeleteThread(ctx context.Context, threadID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM thread_turns WHERE thread_id = ?`, threadID); err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", threadID, err)
	}
	return nil
}
