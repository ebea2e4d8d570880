package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
)

type GoalsRepo struct {
	db *sql.DB
}

func NewGoalsRepo(db *sql.DB) *GoalsRepo {
	return &GoalsRepo{db: db}
}

func (r *GoalsRepo) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	query := `SELECT user_id, goal_type, value, updated_at FROM goals WHERE user_id = ? ORDER BY goal_type`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.UserID, &g.Type, &g.Value, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpsertGoal replaces any previous goal of the same type for the user.
// Last write wins, visible to readers immediately.
func (r *GoalsRepo) UpsertGoal(ctx context.Context, goal core.Goal) error {
	query := `INSERT INTO goals (user_id, goal_type, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, goal_type) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, goal.UserID, goal.Type, goal.Value, goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert goal: %w", err)
	}
	return nil
}

func (r *GoalsRepo) Baselines(ctx context.Context, userID string) ([]core.Baseline, error) {
	query := `SELECT user_id, metric, value, computed_at FROM baselines WHERE user_id = ? ORDER BY metric`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query baselines: %w", err)
	}
	defer rows.Close()

	var baselines []core.Baseline
	for rows.Next() {
		var b core.Baseline
		if err := rows.Scan(&b.UserID, &b.Metric, &b.Value, &b.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		baselines = append(baselines, b)
	}
	return baselines, rows.Err()
}

func (r *GoalsRepo) UpsertBaseline(ctx context.Context, baseline core.Baseline) error {
	query := `INSERT INTO baselines (user_id, metric, value, computed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, metric) DO UPDATE SET
			value = excluded.value,
			computed_at = excluded.computed_at`

	_, err := r.db.ExecContext(ctx, query, baseline.UserID, baseline.Metric, baseline.Value, baseline.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert baseline: %w", err)
	}
	return nil
}
