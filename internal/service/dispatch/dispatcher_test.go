package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/retry"
)

type mockInbox struct {
	mu     sync.Mutex
	msgs   []core.InboundMessage
	status map[int64]core.MessageStatus
}

func newMockInbox(msgs ...core.InboundMessage) *mockInbox {
	status := make(map[int64]core.MessageStatus, len(msgs))
	for _, m := range msgs {
		status[m.ID] = m.Status
	}
	return &mockInbox{msgs: msgs, status: status}
}

func (m *mockInbox) Enqueue(_ context.Context, msg core.InboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	m.status[msg.ID] = core.StatusUnseen
	return nil
}

func (m *mockInbox) FetchUnseen(_ context.Context, limit int) ([]core.InboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.InboundMessage
	for _, msg := range m.msgs {
		if m.status[msg.ID] == core.StatusUnseen && len(out) < limit {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockInbox) Claim(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status[id] != core.StatusUnseen {
		return false, nil
	}
	m.status[id] = core.StatusClaimed
	return true, nil
}

func (m *mockInbox) MarkAnswered(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[id] = core.StatusAnswered
	return nil
}

func (m *mockInbox) statusOf(id int64) core.MessageStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[id]
}

type mockProcessor struct {
	mu      sync.Mutex
	queries []core.Query
	reply   string
}

func (m *mockProcessor) Process(_ context.Context, q core.Query) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	return m.reply
}

func (m *mockProcessor) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

type mockReplier struct {
	mu       sync.Mutex
	sent     []string
	failures int
}

func (m *mockReplier) Reply(_ context.Context, _ core.InboundMessage, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("transport unavailable")
	}
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockReplier) delivered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

type mockCommands struct {
	handled map[string]string
}

func (m *mockCommands) Execute(_ context.Context, _, _ string, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}
	out, ok := m.handled[input]
	return out, ok
}

func (m *mockCommands) ListCommands() []core.Command { return nil }

func fastRetryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		Jitter:        time.Millisecond,
	}
}

func inboundMessage(id int64, text string) core.InboundMessage {
	return core.InboundMessage{
		ID:         id,
		ExternalID: "ext-1",
		Transport:  core.TransportTelegram,
		ChannelID:  "chat-9",
		UserID:     "user-1",
		Author:     "Alice",
		Text:       text,
		Status:     core.StatusUnseen,
		ReceivedAt: time.Now(),
	}
}

func testDispatcher(inbox *mockInbox, commands core.CmdRouter, processor QueryProcessor, replier Replier) *Dispatcher {
	cfg := &config.DispatchConfig{PollInterval: time.Minute, BatchSize: 20}
	return NewDispatcher(cfg, fastRetryConfig(), inbox, commands, processor,
		map[string]Replier{core.TransportTelegram: replier})
}

func TestPollAnswersMessage(t *testing.T) {
	inbox := newMockInbox(inboundMessage(1, "How did I sleep?"))
	processor := &mockProcessor{reply: "You slept 8 hours."}
	replier := &mockReplier{}
	d := testDispatcher(inbox, nil, processor, replier)

	if err := d.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if got := replier.delivered(); len(got) != 1 || got[0] != "You slept 8 hours." {
		t.Errorf("delivered = %v, want the supervisor reply", got)
	}
	if inbox.statusOf(1) != core.StatusAnswered {
		t.Errorf("status = %s, want answered", inbox.statusOf(1))
	}
	if processor.calls() != 1 {
		t.Errorf("processor calls = %d, want 1", processor.calls())
	}
}

func TestPollBuildsThreadScopedQuery(t *testing.T) {
	inbox := newMockInbox(inboundMessage(1, "How did I sleep?"))
	processor := &mockProcessor{reply: "ok"}
	d := testDispatcher(inbox, nil, processor, &mockReplier{})

	_ = d.poll(context.Background())

	q := processor.queries[0]
	if q.ID == "" {
		t.Error("query id should be generated")
	}
	want := core.ThreadID(core.TransportTelegram, "chat-9", "user-1")
	if q.ThreadID != want {
		t.Errorf("thread id = %q, want %q", q.ThreadID, want)
	}
	if q.Text != "How did I sleep?" {
		t.Errorf("text = %q", q.Text)
	}
}

func TestPollNeverDispatchesTwice(t *testing.T) {
	inbox := newMockInbox(inboundMessage(1, "How did I sleep?"))
	processor := &mockProcessor{reply: "once"}
	replier := &mockReplier{}
	d := testDispatcher(inbox, nil, processor, replier)

	// A second dispatcher polling the same inbox, as after a restart
	// overlap. Claim-before-process lets exactly one of them win.
	other := testDispatcher(inbox, nil, processor, replier)

	_ = d.poll(context.Background())
	_ = other.poll(context.Background())

	if processor.calls() != 1 {
		t.Errorf("processor calls = %d, want 1", processor.calls())
	}
	if got := replier.delivered(); len(got) != 1 {
		t.Errorf("delivered %d replies, want 1", len(got))
	}
}

func TestHandleSkipsAlreadyClaimedMessage(t *testing.T) {
	// The message was fetched into a batch snapshot but another worker
	// claimed it in the meantime. Claim returning false drops it here.
	msg := inboundMessage(1, "How did I sleep?")
	inbox := newMockInbox(msg)
	inbox.status[1] = core.StatusClaimed
	processor := &mockProcessor{reply: "never"}
	replier := &mockReplier{}
	d := testDispatcher(inbox, nil, processor, replier)

	d.handle(context.Background(), msg)

	if processor.calls() != 0 {
		t.Errorf("processor calls = %d, want 0 for a claimed message", processor.calls())
	}
	if len(replier.delivered()) != 0 {
		t.Error("claimed message must not be answered again")
	}
}

func TestCommandsBypassSupervisor(t *testing.T) {
	inbox := newMockInbox(inboundMessage(1, "/help"))
	processor := &mockProcessor{reply: "never"}
	replier := &mockReplier{}
	commands := &mockCommands{handled: map[string]string{"/help": "Available commands: ..."}}
	d := testDispatcher(inbox, commands, processor, replier)

	_ = d.poll(context.Background())

	if processor.calls() != 0 {
		t.Error("commands must not reach the supervisor")
	}
	if got := replier.delivered(); len(got) != 1 || got[0] != "Available commands: ..." {
		t.Errorf("delivered = %v, want the command output", got)
	}
	if inbox.statusOf(1) != core.StatusAnswered {
		t.Errorf("status = %s, want answered", inbox.statusOf(1))
	}
}

func TestSendRetriesTransportErrors(t *testing.T) {
	inbox := newMockInbox(inboundMessage(1, "How did I sleep?"))
	replier := &mockReplier{failures: 2}
	d := testDispatcher(inbox, nil, &mockProcessor{reply: "fine"}, replier)

	_ = d.poll(context.Background())

	if got := replier.delivered(); len(got) != 1 {
		t.Fatalf("delivered %d replies, want 1 after retries", len(got))
	}
	if inbox.statusOf(1) != core.StatusAnswered {
		t.Errorf("status = %s, want answered", inbox.statusOf(1))
	}
}

func TestSendFailureLeavesMessageClaimed(t *testing.T) {
	inbox := newMockInbox(inboundMessage(1, "How did I sleep?"))
	replier := &mockReplier{failures: 100}
	d := testDispatcher(inbox, nil, &mockProcessor{reply: "fine"}, replier)

	_ = d.poll(context.Background())

	if inbox.statusOf(1) != core.StatusClaimed {
		t.Errorf("status = %s, want claimed so the reply is never duplicated", inbox.statusOf(1))
	}
}

func TestPollRespectsBatchSize(t *testing.T) {
	inbox := newMockInbox(
		inboundMessage(1, "one"),
		inboundMessage(2, "two"),
		inboundMessage(3, "three"),
	)
	processor := &mockProcessor{reply: "ok"}
	cfg := &config.DispatchConfig{PollInterval: time.Minute, BatchSize: 2}
	d := NewDispatcher(cfg, fastRetryConfig(), inbox, nil, processor,
		map[string]Replier{core.TransportTelegram: &mockReplier{}})

	_ = d.poll(context.Background())

	if processor.calls() != 2 {
		t.Errorf("processed %d messages, want the batch limit of 2", processor.calls())
	}
}
