// Package sqlite persists finished audit runs. The pipeline itself never
// depends on the store; callers opt in when they want run history.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one persisted audit run. Result carries the full aggregate as an
// opaque JSON blob.
type Run struct {
	ID          int64           `json:"id"`
	Client      string          `json:"client"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	Status      string          `json:"status"`
	Passed      int             `json:"passed"`
	Failed      int             `json:"failed"`
	Warnings    int             `json:"warnings"`
	Score       float64         `json:"score"`
	ReportPath  string          `json:"report_path,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Store keeps audit runs in a SQLite database using the pure Go driver,
// so the binary stays CGO-free.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens or creates the database at path and applies the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewStoreWithDB wraps an existing connection. The caller owns the schema.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_runs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		client       TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		status       TEXT NOT NULL,
		passed       INTEGER NOT NULL DEFAULT 0,
		failed       INTEGER NOT NULL DEFAULT 0,
		warnings     INTEGER NOT NULL DEFAULT 0,
		score        REAL NOT NULL DEFAULT 0,
		report_path  TEXT NOT NULL DEFAULT '',
		result       TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_audit_runs_client_time ON audit_runs(client, completed_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run and returns its row id.
func (s *Store) SaveRun(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_runs (client, started_at, completed_at, status, passed, failed, warnings, score, report_path, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Client,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.CompletedAt.UTC().Format(time.RFC3339),
		run.Status, run.Passed, run.Failed, run.Warnings, run.Score,
		run.ReportPath, string(run.Result),
	)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return res.LastInsertId()
}

// GetRun retrieves one run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, client, started_at, completed_at, status, passed, failed, warnings, score, report_path, result
		 FROM audit_runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client, started_at, completed_at, status, passed, failed, warnings, score, report_path, result
		 FROM audit_runs ORDER BY completed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run                    Run
		startedAt, completedAt string
		result                 string
	)
	err := row.Scan(&run.ID, &run.Client, &startedAt, &completedAt, &run.Status,
		&run.Passed, &run.Failed, &run.Warnings, &run.Score, &run.ReportPath, &result)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.CompletedAt, err = time.Parse(time.RFC3339, completedAt); err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}
	if result != "" {
		run.Result = json.RawMessage(result)
	}
	return &run, nil
}
