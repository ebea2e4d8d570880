package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pulsebit/pulsebot/internal/core"
)

func TestInboxLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInboxRepo(newTestDB(t))

	msg := core.InboundMessage{
		ExternalID: "msg-100",
		Transport:  core.TransportTelegram,
		ChannelID:  "chat-1",
		UserID:     "7",
		Author:     "ana",
		Text:       "how did I sleep last night?",
		ReceivedAt: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC),
	}
	if err := repo.Enqueue(ctx, msg); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	// A re-delivered message with the same transport id must not add a row.
	if err := repo.Enqueue(ctx, msg); err != nil {
		t.Fatalf("duplicate enqueue failed: %v", err)
	}

	unseen, err := repo.FetchUnseen(ctx, 10)
	if err != nil {
		t.Fatalf("fetch unseen failed: %v", err)
	}
	if len(unseen) != 1 {
		t.Fatalf("expected 1 unseen message, got %d", len(unseen))
	}
	got := unseen[0]
	if got.Text != msg.Text || got.Status != core.StatusUnseen {
		t.Errorf("unexpected message: %+v", got)
	}

	ok, err := repo.Claim(ctx, got.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if !ok {
		t.Fatal("first claim should win")
	}
	ok, err = repo.Claim(ctx, got.ID)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if ok {
		t.Fatal("second claim must lose")
	}

	// Claimed messages are no longer visible to pollers.
	unseen, err = repo.FetchUnseen(ctx, 10)
	if err != nil {
		t.Fatalf("fetch after claim failed: %v", err)
	}
	if len(unseen) != 0 {
		t.Fatalf("claimed message still visible, got %d messages", len(unseen))
	}

	if err := repo.MarkAnswered(ctx, got.ID); err != nil {
		t.Fatalf("mark answered failed: %v", err)
	}
	unseen, err = repo.FetchUnseen(ctx, 10)
	if err != nil {
		t.Fatalf("fetch after answer failed: %v", err)
	}
	if len(unseen) != 0 {
		t.Fatalf("expected empty inbox, got %d messages", len(unseen))
	}
}

func TestInboxFetchOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewInboxRepo(newTestDB(t))

	for i, text := range []string{"first", "second", "third"} {
		err := repo.Enqueue(ctx, core.InboundMessage{
			ExternalID: fmt.Sprintf("msg-%d", i),
			Transport:  core.TransportCLI,
			ChannelID:  "local",
			UserID:     "7",
			Text:       text,
			ReceivedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("enqueue %q failed: %v", text, err)
		}
	}

	unseen, err := repo.FetchUnseen(ctx, 2)
	if err != nil {
		t.Fatalf("fetch unseen failed: %v", err)
	}
	if len(unseen) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(unseen))
	}
	if unseen[0].Text != "first" || unseen[1].Text != "second" {
		t.Errorf("expected arrival order, got %q then %q", unseen[0].Text, unseen[1].Text)
	}
}

func TestInboxSameIDAcrossTransports(t *testing.T) {
	ctx := context.Background()
	repo := NewInboxRepo(newTestDB(t))

	// External ids only dedup within a transport.
	for _, transport := range []string{core.TransportTelegram, core.TransportCLI} {
		err := repo.Enqueue(ctx, core.InboundMessage{
			ExternalID: "42",
			Transport:  transport,
			ChannelID:  "c",
			UserID:     "7",
			Text:       "hello",
			ReceivedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("enqueue on %s failed: %v", transport, err)
		}
	}

	unseen, err := repo.FetchUnseen(ctx, 10)
	if err != nil {
		t.Fatalf("fetch unseen failed: %v", err)
	}
	if len(unseen) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(unseen))
	}
}
