package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/govlens/govchat/internal/db"
)

// SQLiteStore persists conversations in the govchat SQLite database.
// Messages are stored as a JSON column; conversations are small and always
// read whole, so there is no per-message table.
type SQLiteStore struct {
	db  *db.DB
	max int
}

// NewSQLiteStore creates a bounded store over an open database.
func NewSQLiteStore(database *db.DB, max int) *SQLiteStore {
	if max <= 0 {
		max = 50
	}
	return &SQLiteStore{db: database, max: max}
}

func (s *SQLiteStore) Save(ctx context.Context, conv *Conversation) error {
	msgs, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("marshalling messages: %w", err)
	}

	now := time.Now().UTC()
	createdAt := conv.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, title, messages, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   messages = excluded.messages,
		   updated_at = excluded.updated_at`,
		conv.ID, conv.Title, string(msgs), createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	// FIFO eviction past the bound, oldest creation first.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id IN (
		   SELECT id FROM conversations
		   ORDER BY created_at ASC
		   LIMIT (SELECT CASE WHEN COUNT(*) > ?1 THEN COUNT(*) - ?1 ELSE 0 END
		          FROM conversations)
		 )`, s.max,
	)
	if err != nil {
		return fmt.Errorf("evicting old conversations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, messages, created_at, updated_at
		 FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var msgs string
		if err := rows.Scan(&sum.ID, &sum.Title, &msgs, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		var messages []Message
		if err := json.Unmarshal([]byte(msgs), &messages); err == nil {
			sum.MessageCount = len(messages)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Conversation, error) {
	var conv Conversation
	var msgs string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, messages, created_at, updated_at
		 FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.Title, &msgs, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if err := json.Unmarshal([]byte(msgs), &conv.Messages); err != nil {
		return nil, fmt.Errorf("unmarshalling messages: %w", err)
	}
	return &conv, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}
