// Package sqlite persists per-source processing status. A source marked
// completed here short-circuits the whole run, making re-runs idempotent.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/podbot/podclip/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_podcasts (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	title TEXT,
	processed_at TIMESTAMP,
	status TEXT
)`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open status db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init status db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) IsCompleted(ctx context.Context, sourceID string) (bool, error) {
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM processed_podcasts WHERE id = ?`, sourceID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query status: %w", err)
	}
	return types.RunStatus(status) == types.RunCompleted, nil
}

func (s *Store) MarkProcessing(ctx context.Context, sourceID, url, title string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO processed_podcasts (id, url, title, processed_at, status)
		 VALUES (?, ?, ?, ?, ?)`,
		sourceID, url, title, time.Now().UTC(), string(types.RunProcessing),
	)
	if err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	return nil
}

func (s *Store) MarkCompleted(ctx context.Context, sourceID string) error {
	return s.setStatus(ctx, sourceID, types.RunCompleted)
}

func (s *Store) MarkFailed(ctx context.Context, sourceID string) error {
	return s.setStatus(ctx, sourceID, types.RunFailed)
}

func (s *Store) setStatus(ctx context.Context, sourceID string, status types.RunStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE processed_podcasts SET status = ?, processed_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), sourceID,
	)
	if err != nil {
		return fmt.Errorf("mark %s: %w", status, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
