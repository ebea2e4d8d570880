package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pulsebit/pulsebot/internal/core"
)

type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

// InsertSample upserts by (user, domain, day): re-ingesting an export simply
// refreshes the stored values.
func (r *HealthRepo) InsertSample(ctx context.Context, sample core.HealthSample) error {
	query := `INSERT INTO health_samples (user_id, domain, day, value, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, domain, day) DO UPDATE SET
			value = excluded.value,
			detail = excluded.detail,
			recorded_at = excluded.recorded_at`

	_, err := r.db.ExecContext(ctx, query,
		sample.UserID, sample.Domain, sample.Day.Format("2006-01-02"),
		sample.Value, sample.Detail, sample.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert health sample: %w", err)
	}
	return nil
}

func (r *HealthRepo) SamplesSince(ctx context.Context, userID string, domain core.Domain, since time.Time) ([]core.HealthSample, error) {
	query := `SELECT user_id, domain, day, value, detail, recorded_at
		FROM health_samples
		WHERE user_id = ? AND domain = ? AND day >= ?
		ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, domain, since.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query health samples: %w", err)
	}
	defer rows.Close()

	var samples []core.HealthSample
	for rows.Next() {
		var s core.HealthSample
		if err := rows.Scan(&s.UserID, &s.Domain, &s.Day, &s.Value, &s.Detail, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan health sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// LastRecordedAt returns the zero time when the domain has no rows at all.
func (r *HealthRepo) LastRecordedAt(ctx context.Context, userID string, domain core.Domain) (time.Time, error) {
	var last time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT recorded_at FROM health_samples WHERE user_id = ? AND domain = ? ORDER BY recorded_at DESC LIMIT 1`,
		userID, domain,
	).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last record: %w", err)
	}
	return last, nil
}

func (r *HealthRepo) AverageValue(ctx context.Context, userID string, domain core.Domain, since time.Time) (float64, int64, error) {
	var avg sql.NullFloat64
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(value), COUNT(*) FROM health_samples WHERE user_id = ? AND domain = ? AND day >= ?`,
		userID, domain, since.Format("2006-01-02"),
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query average: %w", err)
	}
	return avg.Float64, count, nil
}

// AverageDetail averages one numeric field out of the detail JSON. Rows
// where the field is absent or non-numeric are skipped, so the count only
// covers rows that contributed to the average.
func (r *HealthRepo) AverageDetail(ctx context.Context, userID string, domain core.Domain, field string, since time.Time) (float64, int64, error) {
	var avg sql.NullFloat64
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(v), COUNT(*) FROM (
			SELECT CAST(json_extract(detail, '$.' || ?) AS REAL) AS v
			FROM health_samples
			WHERE user_id = ? AND domain = ? AND day >= ?
				AND json_extract(detail, '$.' || ?) IS NOT NULL
		)`,
		field, userID, domain, since.Format("2006-01-02"), field,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query detail average: %w", err)
	}
	return avg.Float64, count, nil
}

func (r *HealthRepo) CountByDomain(ctx context.Context, userID string) (map[core.Domain]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT domain, COUNT(*) FROM health_samples WHERE user_id = ? GROUP BY domain`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Domain]int64)
	for rows.Next() {
		var domain core.Domain
		var n int64
		if err := rows.Scan(&domain, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[domain] = n
	}
	return counts, rows.Err()
}
