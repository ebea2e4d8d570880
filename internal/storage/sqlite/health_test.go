package sqlite

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pulsebit/pulsebot/internal/core"
)

func insertSample(t *testing.T, repo *HealthRepo, domain core.Domain, day string, value float64, detail string) {
	t.Helper()

	d, err := time.Parse(time.DateOnly, day)
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	err = repo.InsertSample(context.Background(), core.HealthSample{
		UserID:     "7",
		Domain:     domain,
		Day:        d,
		Value:      value,
		Detail:     detail,
		RecordedAt: d.Add(10 * time.Hour),
	})
	if err != nil {
		t.Fatalf("insert sample failed: %v", err)
	}
}

func TestHealthUpsertRefreshesDay(t *testing.T) {
	ctx := context.Background()
	repo := NewHealthRepo(newTestDB(t))

	insertSample(t, repo, core.DomainSleep, "2025-08-01", 7.5, `{"deep_minutes": 90}`)
	// A re-ingested export replaces the day in place.
	insertSample(t, repo, core.DomainSleep, "2025-08-01", 8.0, `{"deep_minutes": 95}`)

	since, _ := time.Parse(time.DateOnly, "2025-08-01")
	samples, err := repo.SamplesSince(ctx, "7", core.DomainSleep, since)
	if err != nil {
		t.Fatalf("samples since failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample after re-ingest, got %d", len(samples))
	}
	if samples[0].Value != 8.0 {
		t.Errorf("expected refreshed value 8.0, got %v", samples[0].Value)
	}
	if samples[0].Detail != `{"deep_minutes": 95}` {
		t.Errorf("expected refreshed detail, got %q", samples[0].Detail)
	}
}

func TestHealthAverages(t *testing.T) {
	ctx := context.Background()
	repo := NewHealthRepo(newTestDB(t))

	insertSample(t, repo, core.DomainSleep, "2025-08-01", 8.0, `{"deep_minutes": 90, "hrv": 48}`)
	insertSample(t, repo, core.DomainSleep, "2025-08-02", 6.0, `{"deep_minutes": 60}`)
	insertSample(t, repo, core.DomainSleep, "2025-07-01", 4.0, `{"deep_minutes": 30}`)

	since, _ := time.Parse(time.DateOnly, "2025-08-01")

	avg, count, err := repo.AverageValue(ctx, "7", core.DomainSleep, since)
	if err != nil {
		t.Fatalf("average value failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 samples in window, got %d", count)
	}
	if math.Abs(avg-7.0) > 1e-9 {
		t.Errorf("expected average 7.0, got %v", avg)
	}

	avg, count, err = repo.AverageDetail(ctx, "7", core.DomainSleep, "deep_minutes", since)
	if err != nil {
		t.Fatalf("average detail failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 samples with deep_minutes, got %d", count)
	}
	if math.Abs(avg-75.0) > 1e-9 {
		t.Errorf("expected detail average 75.0, got %v", avg)
	}

	// Only one row carries hrv; the other must not drag the average down.
	avg, count, err = repo.AverageDetail(ctx, "7", core.DomainSleep, "hrv", since)
	if err != nil {
		t.Fatalf("average detail hrv failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 sample with hrv, got %d", count)
	}
	if math.Abs(avg-48.0) > 1e-9 {
		t.Errorf("expected hrv average 48.0, got %v", avg)
	}

	_, count, err = repo.AverageDetail(ctx, "7", core.DomainSleep, "missing_field", since)
	if err != nil {
		t.Fatalf("average detail missing field failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 samples for absent field, got %d", count)
	}
}

func TestHealthLastRecordedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewHealthRepo(newTestDB(t))

	insertSample(t, repo, core.DomainReadiness, "2025-08-01", 82, `{}`)
	insertSample(t, repo, core.DomainReadiness, "2025-08-03", 74, `{}`)

	last, err := repo.LastRecordedAt(ctx, "7", core.DomainReadiness)
	if err != nil {
		t.Fatalf("last recorded at failed: %v", err)
	}
	want := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	if !last.Equal(want) {
		t.Errorf("expected %v, got %v", want, last)
	}

	last, err = repo.LastRecordedAt(ctx, "7", core.DomainSpO2)
	if err != nil {
		t.Fatalf("last recorded at for empty domain failed: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("expected zero time for empty domain, got %v", last)
	}
}

func TestHealthCountByDomain(t *testing.T) {
	ctx := context.Background()
	repo := NewHealthRepo(newTestDB(t))

	insertSample(t, repo, core.DomainSleep, "2025-08-01", 7.5, `{}`)
	insertSample(t, repo, core.DomainSleep, "2025-08-02", 6.8, `{}`)
	insertSample(t, repo, core.DomainActivity, "2025-08-01", 91, `{}`)

	counts, err := repo.CountByDomain(ctx, "7")
	if err != nil {
		t.Fatalf("count by domain failed: %v", err)
	}
	if counts[core.DomainSleep] != 2 {
		t.Errorf("expected 2 sleep samples, got %d", counts[core.DomainSleep])
	}
	if counts[core.DomainActivity] != 1 {
		t.Errorf("expected 1 activity sample, got %d", counts[core.DomainActivity])
	}
	if _, ok := counts[core.DomainStress]; ok {
		t.Error("expected no entry for domain without samples")
	}
}
