package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsebit/pulsebot/internal/core"
)

// LongTerm wraps the goals repository behind the read and write contracts.
// Validation lives here so no caller can persist a goal type the rest of
// the system does not understand.
type LongTerm struct {
	goals core.GoalsRepository
}

func NewLongTerm(goals core.GoalsRepository) *LongTerm {
	return &LongTerm{goals: goals}
}

func (l *LongTerm) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	return l.goals.Goals(ctx, userID)
}

func (l *LongTerm) Baselines(ctx context.Context, userID string) ([]core.Baseline, error) {
	return l.goals.Baselines(ctx, userID)
}

func (l *LongTerm) SetGoal(ctx context.Context, userID string, goalType core.GoalType, value string) error {
	if !core.ValidGoalType(goalType) {
		return fmt.Errorf("unknown goal type %q", goalType)
	}
	if value == "" {
		return fmt.Errorf("goal value must not be empty")
	}
	return l.goals.UpsertGoal(ctx, core.Goal{
		UserID:    userID,
		Type:      goalType,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

func (l *LongTerm) SetBaseline(ctx context.Context, userID, metric string, value float64) error {
	return l.goals.UpsertBaseline(ctx, core.Baseline{
		UserID:     userID,
		Metric:     metric,
		Value:      value,
		ComputedAt: time.Now(),
	})
}
