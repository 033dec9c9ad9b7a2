// Package storage persists run history in a local SQLite database so
// past pipeline runs and their logs can be listed later.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/planpatch/planpatch/pkg/types"
)

// Store is the run-history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database under basePath.
func Open(basePath string) (*Store, error) {
	dbPath := filepath.Join(basePath, "history.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // Keep it simple to avoid locks

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		repo TEXT,
		request TEXT,
		steps INTEGER,
		modified_files INTEGER,
		failed_steps INTEGER,
		digest_stats TEXT,
		created_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS run_logs (
		run_id TEXT,
		seq INTEGER,
		line TEXT,
		PRIMARY KEY (run_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists one run plus its execution log and returns the run id.
func (s *Store) SaveRun(repo, request string, steps int, result *types.ExecutionResult, stats types.DigestStats) (string, error) {
	id := uuid.New().String()

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, repo, request, steps, modified_files, failed_steps, digest_stats, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, repo, request, steps, len(result.ModifiedFiles), result.FailedSteps,
		string(statsJSON), time.Now().Unix(),
	)
	if err != nil {
		return "", err
	}

	for seq, line := range result.Log.Entries {
		if _, err := tx.Exec(
			`INSERT INTO run_logs (run_id, seq, line) VALUES (?, ?, ?)`,
			id, seq, line,
		); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, repo, request, steps, modified_files, failed_steps, digest_stats, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		var r types.RunRecord
		var statsJSON string
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Repo, &r.Request, &r.Steps, &r.ModifiedFiles, &r.FailedSteps, &statsJSON, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(statsJSON), &r.Digest); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// RunLogs returns one run's execution log lines in order.
func (s *Store) RunLogs(runID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT line FROM run_logs WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
