package keystore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viant/easymix/export"
	"github.com/viant/easymix/question"
)

const schema = `CREATE TABLE IF NOT EXISTS answer_key (
    run_id VARCHAR(64) NOT NULL,
    version VARCHAR(16) NOT NULL,
    question_type VARCHAR(32) NOT NULL,
    number INTEGER NOT NULL,
    answer TEXT NOT NULL,
    points VARCHAR(16) NOT NULL,
    content TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (run_id, version, question_type, number)
)`

// Run summarizes one archived mix run.
type Run struct {
	ID        string
	Versions  int
	CreatedAt time.Time
}

// Store archives the answer records of mix runs in a SQL database.
type Store struct {
	db     *sql.DB
	driver string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Open connects to the database, detecting the driver from the DSN when
// driver is empty, and creates the answer table if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == "" {
		detected, ok := DetectDriver(dsn)
		if !ok {
			return nil, fmt.Errorf("keystore: cannot detect driver for dsn %q", dsn)
		}
		driver = detected
	}
	db, err := sql.Open(driver, driverDSN(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("keystore: open %s: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the answer table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("keystore: ensure schema: %w", err)
	}
	return nil
}

// Save archives the records of a run in one transaction.
func (s *Store) Save(ctx context.Context, runID string, records []export.QuestionExport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("keystore: begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, rebind(s.driver,
		`INSERT INTO answer_key (run_id, version, question_type, number, answer, points, content, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("keystore: prepare: %w", err)
	}
	defer stmt.Close()
	now := time.Now().Unix()
	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, runID, record.Version, record.Type.String(), record.Number, record.Answer, record.Points, record.Content, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("keystore: insert %s/%s/%d: %w", record.Version, record.Type, record.Number, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("keystore: commit: %w", err)
	}
	return nil
}

// Load returns the archived records of a run ordered by version, type and number.
func (s *Store) Load(ctx context.Context, runID string) ([]export.QuestionExport, error) {
	rows, err := s.db.QueryContext(ctx, rebind(s.driver,
		`SELECT version, question_type, number, answer, points, content FROM answer_key WHERE run_id = ? ORDER BY version, question_type, number`), runID)
	if err != nil {
		return nil, fmt.Errorf("keystore: query run %s: %w", runID, err)
	}
	defer rows.Close()
	var result []export.QuestionExport
	for rows.Next() {
		var record export.QuestionExport
		var kind string
		if err := rows.Scan(&record.Version, &kind, &record.Number, &record.Answer, &record.Points, &record.Content); err != nil {
			return nil, fmt.Errorf("keystore: scan: %w", err)
		}
		record.Type = question.ParseType(kind)
		result = append(result, record)
	}
	return result, rows.Err()
}

// Runs lists archived runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, COUNT(DISTINCT version), MAX(created_at) FROM answer_key GROUP BY run_id ORDER BY MAX(created_at) DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("keystore: list runs: %w", err)
	}
	defer rows.Close()
	var result []Run
	for rows.Next() {
		var run Run
		var created int64
		if err := rows.Scan(&run.ID, &run.Versions, &created); err != nil {
			return nil, fmt.Errorf("keystore: scan: %w", err)
		}
		run.CreatedAt = time.Unix(created, 0)
		result = append(result, run)
	}
	return result, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
