package core

import (
	"context"
	"time"
)

// MessageStatus tracks an inbox message through its lifecycle. Transitions are
// one-way: unseen -> claimed -> answered.
type MessageStatus string

const (
	StatusUnseen   MessageStatus = "unseen"
	StatusClaimed  MessageStatus = "claimed"
	StatusAnswered MessageStatus = "answered"
)

const (
	TransportTelegram = "telegram"
	TransportCLI      = "cli"
)

// InboundMessage is one message as stored in the inbox. ExternalID is the
// transport's own id and dedups re-deliveries at insert time.
type InboundMessage struct {
	ID         int64
	ExternalID string
	Transport  string
	ChannelID  string
	UserID     string
	Author     string
	Text       string
	Status     MessageStatus
	ReceivedAt time.Time
}

type InboxRepository interface {
	Enqueue(ctx context.Context, msg InboundMessage) error
	FetchUnseen(ctx context.Context, limit int) ([]InboundMessage, error)
	// Claim flips one message from unseen to claimed. Returns false when the
	// message was already claimed or answered, which is how duplicate polls
	// are suppressed.
	Claim(ctx context.Context, id int64) (bool, error)
	MarkAnswered(ctx context.Context, id int64) error
}

type Turn struct {
	ID        int64
	ThreadID  string
	Role      string
	Content   string
	CreatedAt time.Time
}

type TurnsRepository interface {
	AppendTurn(ctx context.Context, threadID string, turn Turn) error
	RecentTurns(ctx context.Context, threadID string, limit int) ([]Turn, error)
	DeleteThread(ctx context.Context, threadID string) error
}

type EpisodicEntry struct {
	ID        int64
	ThreadID  string
	Text      string
	Embedding []float32
	Distance  float64
	CreatedAt time.Time
}

type EpisodeRepository interface {
	AppendEpisode(ctx context.Context, entry EpisodicEntry) error
	SearchEpisodes(ctx context.Context, embedding []float32, k int) ([]EpisodicEntry, error)
	RecentEpisodes(ctx context.Context, threadID string, limit int) ([]EpisodicEntry, error)
}

type Goal struct {
	UserID    string
	Type      GoalType
	Value     string
	UpdatedAt time.Time
}

type Baseline struct {
	UserID     string
	Metric     string
	Value      float64
	ComputedAt time.Time
}

type GoalsRepository interface {
	Goals(ctx context.Context, userID string) ([]Goal, error)
	UpsertGoal(ctx context.Context, goal Goal) error
	Baselines(ctx context.Context, userID string) ([]Baseline, error)
	UpsertBaseline(ctx context.Context, baseline Baseline) error
}

// HealthSample is one row of ring data. Day is the calendar day the sample
// describes, RecordedAt when the ring delivered it. Value holds the domain's
// headline number (sleep duration hours, activity score, readiness score);
// Detail carries the remaining fields as a JSON object.
type HealthSample struct {
	UserID     string
	Domain     Domain
	Day        time.Time
	Value      float64
	Detail     string
	RecordedAt time.Time
}

type HealthRepository interface {
	InsertSample(ctx context.Context, sample HealthSample) error
	SamplesSince(ctx context.Context, userID string, domain Domain, since time.Time) ([]HealthSample, error)
	// LastRecordedAt returns the zero time when the domain has no rows.
	LastRecordedAt(ctx context.Context, userID string, domain Domain) (time.Time, error)
	AverageValue(ctx context.Context, userID string, domain Domain, since time.Time) (float64, int64, error)
	// AverageDetail averages a numeric field of the detail JSON, counting
	// only rows where the field is present.
	AverageDetail(ctx context.Context, userID string, domain Domain, field string, since time.Time) (float64, int64, error)
	CountByDomain(ctx context.Context, userID string) (map[Domain]int64, error)
}
