// Package sqlite provides a SQLite-backed checkpoint saver. One row holds
// the live checkpoint for each thread, so a resumed process picks up
// exactly where the last persisted step advance left off.
//
// The saver takes an opened *sql.DB; the caller chooses the driver and
// owns the connection lifecycle.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/voyagerlab/voyager/graph"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS checkpoints (
	thread_id  TEXT PRIMARY KEY,
	checkpoint TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Saver persists checkpoints in a SQLite table, one row per thread.
type Saver struct {
	db *sql.DB
}

var _ graph.CheckpointSaver = (*Saver)(nil)

// NewSaver creates a saver on the given database, creating the
// checkpoints table if it does not exist.
func NewSaver(ctx context.Context, db *sql.DB) (*Saver, error) {
	if db == nil {
		return nil, errors.New("sqlite saver: db is nil")
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("create checkpoints table: %w", err)
	}
	return &Saver{db: db}, nil
}

// Get returns the live checkpoint for the thread, or (nil, nil).
func (s *Saver) Get(ctx context.Context, threadID string) (*graph.Checkpoint, error) {
	var data []byte
	row := s.db.QueryRowContext(ctx,
		`SELECT checkpoint FROM checkpoints WHERE thread_id = ?`, threadID)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query checkpoint: %w", err)
	}
	var checkpoint graph.Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	return &checkpoint, nil
}

// Put stores the checkpoint, replacing any prior row for its thread.
func (s *Saver) Put(ctx context.Context, checkpoint *graph.Checkpoint) error {
	data, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (thread_id, checkpoint, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(thread_id) DO UPDATE SET
			checkpoint = excluded.checkpoint,
			updated_at = excluded.updated_at`,
		checkpoint.ThreadID, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store checkpoint: %w", err)
	}
	return nil
}

// Delete removes the thread's checkpoint row, if present.
func (s *Saver) Delete(ctx context.Context, threadID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE thread_id = ?`, threadID); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

// Close is a no-op; the caller owns the *sql.DB.
func (s *Saver) Close() error {
	return nil
}
