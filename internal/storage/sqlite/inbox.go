package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

type InboxRepo struct {
	db *sql.DB
}

func NewInboxRepo(db *sql.DB) *InboxRepo {
	return &InboxRepo{db: db}
}

// Enqueue inserts an inbound message in the unseen state. Re-deliveries of the
// same (transport, external_id) are silently ignored so transports can push
// without their own dedup bookkeeping.
func (r *InboxRepo) Enqueue(ctx context.Context, msg core.InboundMessage) error {
	query := `INSERT OR IGNORE INTO inbox_messages
		(external_id, transport, channel_id, user_id, author, content, status, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		msg.ExternalID, msg.Transport, msg.ChannelID, msg.UserID, msg.Author, msg.Text,
		core.StatusUnseen, msg.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.FromCtx(ctx).Debug().
			Str("transport", msg.Transport).
			Str("external_id", msg.ExternalID).
			Msg("duplicate inbound message ignored")
	}
	return nil
}

func (r *InboxRepo) FetchUnseen(ctx context.Context, limit int) ([]core.InboundMessage, error) {
	query := `SELECT id, external_id, transport, channel_id, user_id, author, content, status, received_at
		FROM inbox_messages WHERE status = ? ORDER BY id ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, core.StatusUnseen, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inbox: %w", err)
	}
	defer rows.Close()

	var messages []core.InboundMessage
	for rows.Next() {
		var msg core.InboundMessage
		if err := rows.Scan(&msg.ID, &msg.ExternalID, &msg.Transport, &msg.ChannelID,
			&msg.UserID, &msg.Author, &msg.Text, &msg.Status, &msg.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inbox message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Claim atomically flips a message from unseen to claimed. The conditional
// UPDATE is the dedup gate: only one caller can win, everyone else sees
// claimed=false and must skip the message.
func (r *InboxRepo) Claim(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inbox_messages SET status = ?, claimed_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		core.StatusClaimed, id, core.StatusUnseen,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim message %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return affected == 1, nil
}

func (r *InboxRepo) MarkAnswered(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE inbox_messages SET status = ?, answered_at = CURRENT_TIMESTAMP WHERE id = ?`,
		core.StatusAnswered, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark message %d answered: %w", id, err)
	}
	return nil
}
