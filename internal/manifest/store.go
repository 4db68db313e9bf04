// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest keeps a SQLite history of exported figures so a project
// can see which source figure produced which output file, and when.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tikz-export/pkg/types"
)

const defaultLimit = 50

// Store manages the manifest SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the manifest database at path and creates the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			source TEXT NOT NULL,
			figure_index INTEGER NOT NULL,
			name TEXT,
			output TEXT NOT NULL,
			format TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			exported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_run_id ON exports(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_source ON exports(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewRunID returns a fresh identifier for one export run.
func NewRunID() string {
	return uuid.NewString()
}

// Record stores the records of one run in a single transaction. Records
// without a RunID get runID; a zero ExportedAt becomes now.
func (s *Store) Record(ctx context.Context, runID, source string, records []types.ExportRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO exports
		(run_id, source, figure_index, name, output, format, status, error, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		if r.RunID == "" {
			r.RunID = runID
		}
		if r.Source == "" {
			r.Source = source
		}
		if r.ExportedAt.IsZero() {
			r.ExportedAt = now
		}
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Source, r.Index, r.Name, r.Output,
			r.Format, string(r.Status), r.Error, r.ExportedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("inserting figure %d: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// QueryOptions filters List.
type QueryOptions struct {
	// Source limits results to one input document.
	Source string
	// RunID limits results to one run.
	RunID string
	// Status limits results to exported or failed figures.
	Status types.ExportStatus
	// Limit caps the number of results (0 = default).
	Limit int
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.ExportRecord, error) {
	query := `SELECT run_id, source, figure_index, name, output, format, status, error, exported_at
		FROM exports WHERE 1=1`
	var args []any
	if opts.Source != "" {
		query += ` AND source = ?`
		args = append(args, opts.Source)
	}
	if opts.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, opts.RunID)
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += ` ORDER BY exported_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	defer rows.Close()

	var out []types.ExportRecord
	for rows.Next() {
		var (
			r          types.ExportRecord
			name, errS sql.NullString
			status, ts string
		)
		if err := rows.Scan(&r.RunID, &r.Source, &r.Index, &name, &r.Output,
			&r.Format, &status, &errS, &ts); err != nil {
			return nil, fmt.Errorf("scanning manifest row: %w", err)
		}
		r.Name = name.String
		r.Error = errS.String
		r.Status = types.ExportStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			r.ExportedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
