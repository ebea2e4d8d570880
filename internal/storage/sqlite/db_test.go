package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// newTestDB opens a throwaway database file and runs the full migration set,
// so tests exercise the same schema the app ships with.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "pulse.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
