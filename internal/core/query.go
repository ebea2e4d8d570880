package core

import (
	"fmt"
	"time"
)

// SpecialistTag names one of the four domain specialists. The set is closed;
// merge order always follows SpecialistOrder regardless of completion order.
type SpecialistTag string

const (
	SpecSleep   SpecialistTag = "sleep_analyst"
	SpecFitness SpecialistTag = "fitness_coach"
	SpecMemory  SpecialistTag = "memory_keeper"
	SpecAuditor SpecialistTag = "data_auditor"
)

// SpecialistOrder is the fixed merge precedence.
func SpecialistOrder() []SpecialistTag {
	return []SpecialistTag{SpecSleep, SpecFitness, SpecMemory, SpecAuditor}
}

// Query is one inbound question bound to its conversation thread.
// Immutable once constructed.
type Query struct {
	ID         string
	ThreadID   string
	UserID     string
	Author     string
	Text       string
	ReceivedAt time.Time
}

// ThreadID derives the stable conversation key for a (transport, channel, user)
// triple. Threads survive restarts, so the format must never change.
func ThreadID(transport, channelID, userID string) string {
	return fmt.Sprintf("pulse-%s-%s-%s", transport, channelID, userID)
}

// FreshnessResult is one domain's staleness verdict. Missing means the store
// holds no record at all for the domain, which is reported as infinitely stale
// but kept distinct from a stale-but-present record.
type FreshnessResult struct {
	Domain    Domain
	Missing   bool
	Age       time.Duration
	Threshold time.Duration
	LastSeen  time.Time
}

func (r FreshnessResult) Stale() bool {
	return r.Missing || r.Age > r.Threshold
}

// Warning renders the user-visible caveat for a stale result. Empty for fresh
// data so callers can append unconditionally.
func (r FreshnessResult) Warning() string {
	if !r.Stale() {
		return ""
	}
	if r.Missing {
		return fmt.Sprintf("no %s data found in the database", r.Domain)
	}
	days := int(r.Age.Hours() / 24)
	return fmt.Sprintf("%s data is %d days old (last: %s), the ring may not be syncing",
		r.Domain, days, r.LastSeen.Format("2006-01-02"))
}

// SpecialistResponse is the single result a specialist produces per query.
// Specialists fail closed: Failed marks a degraded answer whose Text explains
// what went wrong, never a propagated error.
type SpecialistResponse struct {
	Tag      SpecialistTag
	Text     string
	Warnings []FreshnessResult
	Failed   bool
}
