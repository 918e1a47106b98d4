// SPDX-License-Identifier: MPL-2.0

// Package history persists finished executions in a local SQLite database.
//
// Recording is strictly best effort from the callers' point of view: the
// interactive session and the batch driver log a failed Record at debug
// level and move on. The store itself still reports real errors so
// `runbook history` can explain an unreadable database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"runbook-cli/internal/runtime"
)

// defaultLimit bounds List when the caller does not set one.
const defaultLimit = 50

type (
	// Store is a handle to the execution history database. It is safe for
	// concurrent use; SQLite serializes writers internally.
	Store struct {
		db *sql.DB
	}

	// Entry is one recorded execution.
	Entry struct {
		ID         string
		App        string
		Action     string
		Command    string
		FullCmd    string
		LogPath    string
		Success    bool
		Error      string
		StartedAt  time.Time
		FinishedAt time.Time
	}

	// Filter narrows a List call. The zero value lists the most recent
	// defaultLimit entries across all apps.
	Filter struct {
		// Limit caps the number of entries; non-positive means defaultLimit.
		Limit int
		// App restricts entries to one application when non-empty.
		App string
		// FailedOnly drops successful executions.
		FailedOnly bool
	}
)

// Duration returns the wall-clock time the recorded execution took.
func (e Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Open creates or opens the history database at path, creating parent
// directories as needed, and applies pending migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("history: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: connect to database %q: %w", path, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one finished execution. Timestamps are normalized to UTC
// so entries order consistently across sessions.
func (s *Store) Record(ctx context.Context, res runtime.Result) error {
	id := res.ID
	if id == "" {
		id = uuid.NewString()
	}

	var errText string
	if res.Err != nil {
		errText = res.Err.Error()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO executions (id, app, action, command, full_cmd, log_path, success, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.AppName, res.ActionName, res.Command, res.FullCmd, res.LogPath,
		res.Success, errText, res.StartedAt.UTC(), res.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("history: record execution %s/%s: %w", res.AppName, res.ActionName, err)
	}
	return nil
}

// List returns recorded executions newest first, narrowed by the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `SELECT id, app, action, command, full_cmd, log_path, success, error, started_at, finished_at
		 FROM executions`

	var conds []string
	var args []any
	if f.App != "" {
		conds = append(conds, "app = ?")
		args = append(args, f.App)
	}
	if f.FailedOnly {
		conds = append(conds, "success = 0")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list executions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fullCmd, logPath, errText sql.NullString
		if err := rows.Scan(
			&e.ID, &e.App, &e.Action, &e.Command, &fullCmd, &logPath,
			&e.Success, &errText, &e.StartedAt, &e.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("history: scan execution row: %w", err)
		}
		e.FullCmd = fullCmd.String
		e.LogPath = logPath.String
		e.Error = errText.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate executions: %w", err)
	}

	return entries, nil
}
