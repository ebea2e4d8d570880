package core

import "context"

// ThreadContext is the working-memory state a specialist sees for one thread.
// An unknown thread yields a valid zero-value context, never an error.
type ThreadContext struct {
	ThreadID string
	Turns    []Turn
}

// History converts stored turns into provider messages, oldest first.
func (c ThreadContext) History() []Message {
	out := make([]Message, 0, len(c.Turns))
	for _, t := range c.Turns {
		out = append(out, Message{Role: t.Role, Content: t.Content})
	}
	return out
}

type WorkingMemory interface {
	Load(ctx context.Context, threadID string) (ThreadContext, error)
	Save(ctx context.Context, threadID, role, content string) error
	Clear(ctx context.Context, threadID string) error
}

type EpisodicMemory interface {
	// Record persists one answered exchange for later recall. Long texts are
	// chunked, each chunk embedded and appended as its own entry.
	Record(ctx context.Context, threadID, query, reply string) error
	Search(ctx context.Context, text string, k int) ([]EpisodicEntry, error)
	Recent(ctx context.Context, threadID string, n int) ([]EpisodicEntry, error)
}

// LongTermReader is the read side of goals and baselines, available to every
// specialist.
type LongTermReader interface {
	Goals(ctx context.Context, userID string) ([]Goal, error)
	Baselines(ctx context.Context, userID string) ([]Baseline, error)
}

// LongTermStore adds the mutating side. Only the memory keeper and the
// baseline service are wired with it.
type LongTermStore interface {
	LongTermReader
	SetGoal(ctx context.Context, userID string, goalType GoalType, value string) error
	SetBaseline(ctx context.Context, userID, metric string, value float64) error
}
