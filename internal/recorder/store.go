package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/flemzord/tgwire/pkg/telegram"
)

// StoredUpdate is one row of the update log: the extracted columns used for
// querying plus the full update as received.
type StoredUpdate struct {
	UpdateID   int64           `json:"update_id"`
	Kind       string          `json:"kind"`
	ChatID     int64           `json:"chat_id,omitempty"`
	Sender     string          `json:"sender,omitempty"`
	Text       string          `json:"text,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	Update     telegram.Update `json:"update"`
}

// Record appends one update to the log. Recording the same update twice is a
// no-op: polling is at-least-once across restarts, the log is exactly-once.
func (s *Store) Record(ctx context.Context, u telegram.Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("recorder: marshal update %d: %w", u.UpdateID, err)
	}

	var (
		chatID int64
		sender string
		text   string
	)
	if msg := u.Msg(); msg != nil {
		chatID = msg.Chat.ID
		if msg.From != nil {
			sender = msg.From.Username
		}
		text = msg.Text
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO updates (update_id, kind, chat_id, sender, text, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.UpdateID, u.Kind(), chatID, sender, text, string(payload),
	)
	if err != nil {
		return fmt.Errorf("recorder: record update %d: %w", u.UpdateID, err)
	}
	return nil
}

// Recent returns the n most recent updates in chronological order.
func (s *Store) Recent(ctx context.Context, n int) ([]StoredUpdate, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT update_id, kind, chat_id, sender, text, payload, received_at
		FROM updates
		ORDER BY update_id DESC
		LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("recorder: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	updates, err := scanUpdates(rows)
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	slices.Reverse(updates)
	return updates, nil
}

// ByChat returns the n most recent updates for one chat, oldest first.
func (s *Store) ByChat(ctx context.Context, chatID int64, n int) ([]StoredUpdate, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT update_id, kind, chat_id, sender, text, payload, received_at
		FROM updates
		WHERE chat_id = ?
		ORDER BY update_id DESC
		LIMIT ?`,
		chatID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("recorder: by chat: %w", err)
	}
	defer func() { _ = rows.Close() }()

	updates, err := scanUpdates(rows)
	if err != nil {
		return nil, err
	}

	slices.Reverse(updates)
	return updates, nil
}

// Prune deletes all but the keep most recent updates and reports how many
// rows were removed. keep <= 0 keeps everything.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM updates
		WHERE update_id NOT IN (
			SELECT update_id FROM updates ORDER BY update_id DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("recorder: prune: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("recorder: rows affected: %w", err)
	}
	return n, nil
}

// Count returns the number of stored updates.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM updates").Scan(&count); err != nil {
		return 0, fmt.Errorf("recorder: count: %w", err)
	}
	return count, nil
}

func scanUpdates(rows *sql.Rows) ([]StoredUpdate, error) {
	var updates []StoredUpdate
	for rows.Next() {
		var (
			su          StoredUpdate
			payload     string
			receivedStr string
		)
		if err := rows.Scan(&su.UpdateID, &su.Kind, &su.ChatID, &su.Sender, &su.Text, &payload, &receivedStr); err != nil {
			return nil, fmt.Errorf("recorder: scan update: %w", err)
		}

		if err := json.Unmarshal([]byte(payload), &su.Update); err != nil {
			return nil, fmt.Errorf("recorder: unmarshal update %d: %w", su.UpdateID, err)
		}

		if receivedStr != "" {
			t, err := time.Parse(time.RFC3339Nano, receivedStr)
			if err != nil {
				return nil, fmt.Errorf("recorder: parse received_at %q: %w", receivedStr, err)
			}
			su.ReceivedAt = t
		}

		updates = append(updates, su)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorder: scan rows: %w", err)
	}
	return updates, nil
}
