package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
)

type EpisodeRepo struct {
	db *sql.DB
}

func NewEpisodeRepo(db *sql.DB) *EpisodeRepo {
	return &EpisodeRepo{db: db}
}

// AppendEpisode stores the text row and its vector in one transaction, tied
// together by rowid. Episodes are write-once: there is no update path.
func (r *EpisodeRepo) AppendEpisode(ctx context.Context, entry core.EpisodicEntry) error {
	vecBlob, err := serializeVector(entry.Embedding)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO episodes (thread_id, content) VALUES (?, ?)`,
		entry.ThreadID, entry.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	// Use 'rowid' explicitly to tie the vector to the episode id
	_, err = tx.ExecContext(ctx,
		`INSERT INTO episodes_vec (rowid, embedding) VALUES (?, ?)`,
		id, vecBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to insert episode vector: %w", err)
	}

	return tx.Commit()
}

// SearchEpisodes runs a KNN match over the vector table. Distance ties are
// broken by rowid so identical queries always rank identically.
func (r *EpisodeRepo) SearchEpisodes(ctx context.Context, embedding []float32, k int) ([]core.EpisodicEntry, error) {
	vecBlob, err := serializeVector(embedding)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.thread_id, e.content, e.created_at, v.distance
		FROM episodes_vec v
		JOIN episodes e ON e.id = v.rowid
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance, e.id
	`
	rows, err := r.db.QueryContext(ctx, query, vecBlob, k)
	if err != nil {
		return nil, fmt.Errorf("episode search failed: %w", err)
	}
	defer rows.Close()

	return scanEpisodes(rows)
}

func (r *EpisodeRepo) RecentEpisodes(ctx context.Context, threadID string, limit int) ([]core.EpisodicEntry, error) {
	query := `
		SELECT id, thread_id, content, created_at
		FROM episodes WHERE thread_id = ? ORDER BY id DESC LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, threadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent episodes: %w", err)
	}
	defer rows.Close()

	var entries []core.EpisodicEntry
	for rows.Next() {
		var e core.EpisodicEntry
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEpisodes(rows *sql.Rows) ([]core.EpisodicEntry, error) {
	var entries []core.EpisodicEntry
	for rows.Next() {
		var e core.EpisodicEntry
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.Text, &e.CreatedAt, &e.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
