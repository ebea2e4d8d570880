package sqlite

import (
	"context"
	"testing"

	"github.com/pulsebit/pulsebot/internal/core"
)

func TestTurnsRecentChronological(t *testing.T) {
	ctx := context.Background()
	repo := NewTurnsRepo(newTestDB(t))

	for _, content := range []string{"one", "two", "three"} {
		if err := repo.AppendTurn(ctx, "t1", core.Turn{Role: core.RoleUser, Content: content}); err != nil {
			t.Fatalf("append turn failed: %v", err)
		}
	}

	turns, err := repo.RecentTurns(ctx, "t1", 2)
	if err != nil {
		t.Fatalf("recent turns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	// The window keeps the last turns but hands them back oldest first.
	if turns[0].Content != "two" || turns[1].Content != "three" {
		t.Errorf("expected oldest to newest, got %q then %q", turns[0].Content, turns[1].Content)
	}
}

func TestTurnsDeleteThread(t *testing.T) {
	ctx := context.Background()
	repo := NewTurnsRepo(newTestDB(t))

	if err := repo.AppendTurn(ctx, "t1", core.Turn{Role: core.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("append turn failed: %v", err)
	}
	if err := repo.AppendTurn(ctx, "t2", core.Turn{Role: core.RoleUser, Content: "other"}); err != nil {
		t.Fatalf("append turn failed: %v", err)
	}

	if err := repo.DeleteThread(ctx, "t1"); err != nil {
		t.Fatalf("delete thread failed: %v", err)
	}

	turns, err := repo.RecentTurns(ctx, "t1", 10)
	if err != nil {
		t.Fatalf("recent turns after delete failed: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty thread, got %d turns", len(turns))
	}

	turns, err = repo.RecentTurns(ctx, "t2", 10)
	if err != nil {
		t.Fatalf("recent turns for other thread failed: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("delete leaked into other thread, got %d turns", len(turns))
	}
}
