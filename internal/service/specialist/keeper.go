package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
)

const keeperPrompt = `You are the memory keeper of a personal health assistant.

You manage the user's health goals, recall past conversations and keep track of personal baselines. When recalling past exchanges, quote what was actually said. Track progress toward goals and acknowledge when one is met. You do not interpret raw ring data yourself; the sleep analyst and fitness coach do that.

Supported goal types: sleep_duration, sleep_score, step_count, active_calories, hrv_target, readiness_score, workout_frequency, meditation_minutes.

` + guardrails

func setGoalSchema() string {
	types := core.AllGoalTypes()
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = fmt.Sprintf("%q", string(t))
	}
	return fmt.Sprintf(
		`{"type":"object","properties":{"goal_type":{"type":"string","enum":[%s]},"value":{"type":"string","description":"Target value, for example \"8h\" or \"10000\""}},"required":["goal_type","value"]}`,
		strings.Join(quoted, ","))
}

const recallSchema = `{"type":"object","properties":{"text":{"type":"string","description":"What to look for in past conversations"}},"required":["text"]}`

func NewMemoryKeeper(cfg *config.MemoryConfig, engine *Engine, fresh core.FreshnessChecker, store core.LongTermStore, episodic core.EpisodicMemory) *Agent {
	return &Agent{
		tag:    core.SpecMemory,
		system: keeperPrompt,
		engine: engine,
		fresh:  fresh,
		tools: func(q core.Query) *Toolset {
			return NewToolset(
				def("set_goal",
					"Create or update one of the user's health goals. Last write wins per goal type.",
					setGoalSchema(),
					func(ctx context.Context, args json.RawMessage) (string, error) {
						var a struct {
							GoalType string `json:"goal_type"`
							Value    string `json:"value"`
						}
						if err := json.Unmarshal(args, &a); err != nil {
							return "", fmt.Errorf("parse arguments: %w", err)
						}
						gt := core.GoalType(a.GoalType)
						if !core.ValidGoalType(gt) {
							return "", fmt.Errorf("unknown goal type %q", a.GoalType)
						}
						if err := store.SetGoal(ctx, q.UserID, gt, a.Value); err != nil {
							return "", err
						}
						return fmt.Sprintf("Goal saved: %s = %s.", a.GoalType, a.Value), nil
					}),
				def("list_goals",
					"All goals the user has set.",
					emptySchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						goals, err := store.Goals(ctx, q.UserID)
						if err != nil {
							return "", fmt.Errorf("query goals: %w", err)
						}
						return renderGoals(goals), nil
					}),
				def("list_baselines",
					"The user's personal baselines computed from recent ring data.",
					emptySchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						baselines, err := store.Baselines(ctx, q.UserID)
						if err != nil {
							return "", fmt.Errorf("query baselines: %w", err)
						}
						return renderBaselines(baselines), nil
					}),
				def("recall_similar",
					"Search past conversations semantically for related exchanges.",
					recallSchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						var a struct {
							Text string `json:"text"`
						}
						if err := json.Unmarshal(args, &a); err != nil {
							return "", fmt.Errorf("parse arguments: %w", err)
						}
						if a.Text == "" {
							a.Text = q.Text
						}
						entries, err := episodic.Search(ctx, a.Text, cfg.SearchLimit)
						if err != nil {
							return "", fmt.Errorf("search episodes: %w", err)
						}
						return renderEpisodes(entries), nil
					}),
				def("recent_insights",
					"The most recent recorded exchanges in this conversation thread.",
					emptySchema,
					func(ctx context.Context, args json.RawMessage) (string, error) {
						entries, err := episodic.Recent(ctx, q.ThreadID, cfg.RecentLimit)
						if err != nil {
							return "", fmt.Errorf("recent episodes: %w", err)
						}
						return renderEpisodes(entries), nil
					}),
			)
		},
	}
}
