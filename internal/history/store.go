package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pattooweb/internal/config"
	"pattooweb/internal/preflight"
)

// timestampLayout keeps a fixed-width fraction so stored values sort
// chronologically as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the install run ledger backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	retain int
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, retain: cfg.History.RetainedRuns}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts run and prunes the ledger to the retained run count.
// A retained count of zero keeps every run.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	stages := make([]stageRecord, 0, len(run.Stages))
	for _, stage := range run.Stages {
		stages = append(stages, stageRecord{Name: stage.Name, Passed: stage.Passed, Detail: stage.Detail})
	}
	stagesJSON, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO install_runs (id, started_at, finished_at, passed, stages_json) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timestampLayout),
		run.FinishedAt.UTC().Format(timestampLayout),
		boolToInt(run.Passed),
		string(stagesJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if s.retain > 0 {
		_, err = tx.ExecContext(
			ctx,
			`DELETE FROM install_runs WHERE id NOT IN (
                SELECT id FROM install_runs ORDER BY started_at DESC, rowid DESC LIMIT ?
            )`,
			s.retain,
		)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, passed, stages_json FROM install_runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		started    string
		finished   string
		passed     int
		stagesJSON string
	)
	if err := rows.Scan(&run.ID, &started, &finished, &passed, &stagesJSON); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at for %s: %w", run.ID, err)
	}
	run.Passed = passed != 0

	var stages []stageRecord
	if err := json.Unmarshal([]byte(stagesJSON), &stages); err != nil {
		return Run{}, fmt.Errorf("decode stages for %s: %w", run.ID, err)
	}
	for _, stage := range stages {
		run.Stages = append(run.Stages, preflight.Result{Name: stage.Name, Passed: stage.Passed, Detail: stage.Detail})
	}
	return run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
