package specialist

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
)

type mockFreshness struct {
	stale   map[core.Domain]bool
	checked []core.Domain
}

func (m *mockFreshness) Check(ctx context.Context, userID string, domain core.Domain) core.FreshnessResult {
	m.checked = append(m.checked, domain)
	if m.stale[domain] {
		return core.FreshnessResult{Domain: domain, Missing: true, Threshold: 48 * time.Hour}
	}
	return core.FreshnessResult{
		Domain:    domain,
		Age:       time.Hour,
		Threshold: 48 * time.Hour,
		LastSeen:  time.Now().Add(-time.Hour),
	}
}

func (m *mockFreshness) Report(ctx context.Context, userID string) []core.FreshnessResult {
	results := make([]core.FreshnessResult, 0, len(core.AllDomains()))
	for _, d := range core.AllDomains() {
		results = append(results, m.Check(ctx, userID, d))
	}
	return results
}

type mockHealth struct {
	samples map[core.Domain][]core.HealthSample
}

func (m *mockHealth) InsertSample(ctx context.Context, sample core.HealthSample) error {
	return nil
}

func (m *mockHealth) SamplesSince(ctx context.Context, userID string, domain core.Domain, since time.Time) ([]core.HealthSample, error) {
	return m.samples[domain], nil
}

func (m *mockHealth) LastRecordedAt(ctx context.Context, userID string, domain core.Domain) (time.Time, error) {
	return time.Time{}, nil
}

func (m *mockHealth) AverageValue(ctx context.Context, userID string, domain core.Domain, since time.Time) (float64, int64, error) {
	all := m.samples[domain]
	if len(all) == 0 {
		return 0, 0, nil
	}
	sum := 0.0
	for _, s := range all {
		sum += s.Value
	}
	return sum / float64(len(all)), int64(len(all)), nil
}

func (m *mockHealth) AverageDetail(ctx context.Context, userID string, domain core.Domain, field string, since time.Time) (float64, int64, error) {
	return 0, 0, nil
}

func (m *mockHealth) CountByDomain(ctx context.Context, userID string) (map[core.Domain]int64, error) {
	counts := make(map[core.Domain]int64)
	for d, s := range m.samples {
		counts[d] = int64(len(s))
	}
	return counts, nil
}

type mockLongTerm struct {
	goals     []core.Goal
	baselines []core.Baseline
}

func (m *mockLongTerm) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	return m.goals, nil
}

func (m *mockLongTerm) Baselines(ctx context.Context, userID string) ([]core.Baseline, error) {
	return m.baselines, nil
}

func (m *mockLongTerm) SetGoal(ctx context.Context, userID string, goalType core.GoalType, value string) error {
	m.goals = append(m.goals, core.Goal{UserID: userID, Type: goalType, Value: value, UpdatedAt: time.Now()})
	return nil
}

func (m *mockLongTerm) SetBaseline(ctx context.Context, userID, metric string, value float64) error {
	m.baselines = append(m.baselines, core.Baseline{UserID: userID, Metric: metric, Value: value, ComputedAt: time.Now()})
	return nil
}

type mockEpisodic struct {
	entries []core.EpisodicEntry
}

func (m *mockEpisodic) Record(ctx context.Context, threadID, query, reply string) error {
	return nil
}

func (m *mockEpisodic) Search(ctx context.Context, text string, k int) ([]core.EpisodicEntry, error) {
	return m.entries, nil
}

func (m *mockEpisodic) Recent(ctx context.Context, threadID string, n int) ([]core.EpisodicEntry, error) {
	return m.entries, nil
}

func answer(text string) *mockAI {
	return &mockAI{responses: []core.Message{{Role: core.RoleAssistant, Content: text}}}
}

func TestHandleFailsClosedOnProviderError(t *testing.T) {
	ai := &mockAI{err: context.DeadlineExceeded}
	agent := NewSleepAnalyst(testEngine(ai, 10), &mockFreshness{}, &mockHealth{}, &mockLongTerm{})

	resp := agent.Handle(context.Background(), core.Query{ID: "q1", UserID: "u1", Text: "How did I sleep?"}, core.ThreadContext{})

	if !resp.Failed {
		t.Error("provider failure must mark the response failed")
	}
	if resp.Tag != core.SpecSleep {
		t.Errorf("tag not carried: %s", resp.Tag)
	}
	if !strings.Contains(resp.Text, "could not complete in time") {
		t.Errorf("timeout should read as a timeout, got %q", resp.Text)
	}
}

func TestHandleDegradedTextForOtherErrors(t *testing.T) {
	ai := &mockAI{err: context.Canceled}
	agent := NewFitnessCoach(testEngine(ai, 10), &mockFreshness{}, &mockHealth{}, &mockLongTerm{})

	resp := agent.Handle(context.Background(), core.Query{UserID: "u1", Text: "Should I train?"}, core.ThreadContext{})

	if !resp.Failed {
		t.Error("expected failed response")
	}
	if !strings.Contains(resp.Text, "fitness coach") {
		t.Errorf("degraded text should name the specialist, got %q", resp.Text)
	}
}

func TestHandleAttachesPrimaryWarnings(t *testing.T) {
	fresh := &mockFreshness{stale: map[core.Domain]bool{core.DomainSleep: true}}
	agent := NewSleepAnalyst(testEngine(answer("You slept fine."), 10), fresh, &mockHealth{}, &mockLongTerm{})

	resp := agent.Handle(context.Background(), core.Query{UserID: "u1", Text: "How did I sleep?"}, core.ThreadContext{})

	if resp.Failed {
		t.Fatal("answer succeeded, response must not be failed")
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Domain != core.DomainSleep {
		t.Fatalf("expected one sleep warning, got %+v", resp.Warnings)
	}
	if resp.Warnings[0].Warning() == "" {
		t.Error("stale warning must render a caveat")
	}
}

func TestHandleChecksSecondaryOnlyWhenMentioned(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantSpO2 bool
	}{
		{name: "not mentioned", query: "How did I sleep last night?", wantSpO2: false},
		{name: "mentioned", query: "What was my blood oxygen last night?", wantSpO2: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh := &mockFreshness{}
			agent := NewSleepAnalyst(testEngine(answer("ok"), 10), fresh, &mockHealth{}, &mockLongTerm{})

			agent.Handle(context.Background(), core.Query{UserID: "u1", Text: tt.query}, core.ThreadContext{})

			gotSpO2 := false
			for _, d := range fresh.checked {
				if d == core.DomainSpO2 {
					gotSpO2 = true
				}
			}
			if gotSpO2 != tt.wantSpO2 {
				t.Errorf("spo2 checked = %v, want %v (checked: %v)", gotSpO2, tt.wantSpO2, fresh.checked)
			}
		})
	}
}

func TestHandleAlwaysChecksPrimaryDomains(t *testing.T) {
	fresh := &mockFreshness{}
	agent := NewFitnessCoach(testEngine(answer("ok"), 10), fresh, &mockHealth{}, &mockLongTerm{})

	agent.Handle(context.Background(), core.Query{UserID: "u1", Text: "Steps today?"}, core.ThreadContext{})

	want := []core.Domain{core.DomainActivity, core.DomainReadiness, core.DomainWorkout}
	if !reflect.DeepEqual(fresh.checked, want) {
		t.Errorf("primary domains not all checked: %v", fresh.checked)
	}
}

func TestToolsetScopes(t *testing.T) {
	engine := testEngine(answer("ok"), 10)
	fresh := &mockFreshness{}
	health := &mockHealth{}
	lt := &mockLongTerm{}
	memCfg := &config.MemoryConfig{SearchLimit: 5, RecentLimit: 5}

	tests := []struct {
		name  string
		agent *Agent
		tools []string
	}{
		{
			name:  "sleep analyst",
			agent: NewSleepAnalyst(engine, fresh, health, lt),
			tools: []string{"sleep_summary", "sleep_trend", "spo2_summary"},
		},
		{
			name:  "fitness coach",
			agent: NewFitnessCoach(engine, fresh, health, lt),
			tools: []string{"activity_summary", "readiness_summary", "workout_list", "stress_summary", "cardio_fitness"},
		},
		{
			name:  "memory keeper",
			agent: NewMemoryKeeper(memCfg, engine, fresh, lt, &mockEpisodic{}),
			tools: []string{"set_goal", "list_goals", "list_baselines", "recall_similar", "recent_insights"},
		},
		{
			name:  "data auditor",
			agent: NewDataAuditor(engine, fresh, health),
			tools: []string{"freshness_report", "record_counts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := tt.agent.tools(core.Query{UserID: "u1", ThreadID: "t1"})
			if got := ts.Names(); !reflect.DeepEqual(got, tt.tools) {
				t.Errorf("toolset mismatch:\ngot  %v\nwant %v", got, tt.tools)
			}
		})
	}
}

func TestSleepSummaryToolRendersSamples(t *testing.T) {
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	health := &mockHealth{samples: map[core.Domain][]core.HealthSample{
		core.DomainSleep: {
			{UserID: "u1", Domain: core.DomainSleep, Day: day, Value: 7.4, Detail: `{"efficiency":92}`},
		},
	}}
	agent := NewSleepAnalyst(testEngine(answer("ok"), 10), &mockFreshness{}, health, &mockLongTerm{})

	ts := agent.tools(core.Query{UserID: "u1"})
	out, err := ts.Call(context.Background(), "sleep_summary", `{"days":7}`)
	if err != nil {
		t.Fatalf("sleep_summary: %v", err)
	}
	if !strings.Contains(out, "2026-08-24") || !strings.Contains(out, "7.4") {
		t.Errorf("sample not rendered: %q", out)
	}
	if !strings.Contains(out, "No sleep_score samples") {
		t.Errorf("empty score domain should say so: %q", out)
	}
}

func TestSetGoalToolValidatesType(t *testing.T) {
	lt := &mockLongTerm{}
	agent := NewMemoryKeeper(&config.MemoryConfig{SearchLimit: 5, RecentLimit: 5},
		testEngine(answer("ok"), 10), &mockFreshness{}, lt, &mockEpisodic{})

	ts := agent.tools(core.Query{UserID: "u1"})
	if _, err := ts.Call(context.Background(), "set_goal", `{"goal_type":"bench_press","value":"100kg"}`); err == nil {
		t.Error("unknown goal type must be rejected")
	}

	out, err := ts.Call(context.Background(), "set_goal", `{"goal_type":"sleep_duration","value":"8h"}`)
	if err != nil {
		t.Fatalf("set_goal: %v", err)
	}
	if !strings.Contains(out, "sleep_duration") {
		t.Errorf("confirmation should echo the goal: %q", out)
	}
	if len(lt.goals) != 1 {
		t.Errorf("goal not stored: %+v", lt.goals)
	}
}

func TestAuditorFreshnessReportTool(t *testing.T) {
	fresh := &mockFreshness{stale: map[core.Domain]bool{core.DomainSleep: true}}
	agent := NewDataAuditor(testEngine(answer("ok"), 10), fresh, &mockHealth{})

	ts := agent.tools(core.Query{UserID: "u1"})
	out, err := ts.Call(context.Background(), "freshness_report", `{}`)
	if err != nil {
		t.Fatalf("freshness_report: %v", err)
	}
	if !strings.Contains(out, "sleep: no data") {
		t.Errorf("stale sleep should show in report: %q", out)
	}
	if !strings.Contains(out, "cardio_age") {
		t.Errorf("report must cover every domain: %q", out)
	}
}
