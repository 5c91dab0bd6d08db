// Package sqlite provides the default durable conversation store, one
// SQLite file holding a JSON state blob per thread.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"insuragent/internal/domain"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	thread_id  TEXT PRIMARY KEY,
	state_json TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// NewStore opens (creating if needed) the conversation database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("opening conversation db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging conversation db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating conversation schema: %w", err)
	}

	// SQLite supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, id domain.ThreadID) (*domain.Conversation, error) {
	var stateJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT state_json FROM conversations WHERE thread_id = ?",
		string(id),
	).Scan(&stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite Get: %w", err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal([]byte(stateJSON), &conv); err != nil {
		return nil, fmt.Errorf("sqlite Get decode: %w", err)
	}
	return &conv, nil
}

func (s *Store) Put(ctx context.Context, conv *domain.Conversation) error {
	stateJSON, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("sqlite Put encode: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (thread_id, state_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET
			state_json = excluded.state_json,
			updated_at = excluded.updated_at
	`, string(conv.ThreadID), string(stateJSON), conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite Put: %w", err)
	}
	return nil
}

func (s *Store) ListThreadIDs(ctx context.Context) ([]domain.ThreadID, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT thread_id FROM conversations ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListThreadIDs: %w", err)
	}
	defer rows.Close()

	var out []domain.ThreadID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite ListThreadIDs scan: %w", err)
		}
		out = append(out, domain.ThreadID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite ListThreadIDs rows: %w", err)
	}
	return out, nil
}
