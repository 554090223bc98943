// Package sqlitestore provides a SQLite-backed history store for
// deployments where multiple processes share the change history and the
// single-document JSON store would lose updates.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/clausediff"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/history"
)

// Store persists history entries in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) a store at the given database path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle, running migrations.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS change_history (
		entry_id      TEXT PRIMARY KEY,
		regulation_id TEXT NOT NULL,
		sequence      INTEGER NOT NULL,
		timestamp     DATETIME NOT NULL,
		content_hash  TEXT NOT NULL,
		prev_hash     TEXT NOT NULL DEFAULT '',
		record        JSON NOT NULL,
		UNIQUE (regulation_id, sequence)
	);
	CREATE INDEX IF NOT EXISTS idx_change_history_regulation
		ON change_history (regulation_id, sequence);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Append implements history.Store.
func (s *Store) Append(ctx context.Context, entry history.Entry) error {
	record, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("marshal change record: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO change_history
			(entry_id, regulation_id, sequence, timestamp, content_hash, prev_hash, record)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID, entry.RegulationID, entry.Sequence,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		entry.ContentHash, entry.PrevHash, string(record))
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// Timeline implements history.Store.
func (s *Store) Timeline(ctx context.Context, regulationID string) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, regulation_id, sequence, timestamp, content_hash, prev_hash, record
		FROM change_history
		WHERE regulation_id = ?
		ORDER BY sequence ASC`, regulationID)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Head implements history.Store.
func (s *Store) Head(ctx context.Context, regulationID string) (*history.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT entry_id, regulation_id, sequence, timestamp, content_hash, prev_hash, record
		FROM change_history
		WHERE regulation_id = ?
		ORDER BY sequence DESC
		LIMIT 1`, regulationID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (history.Entry, error) {
	var e history.Entry
	var ts, record string
	if err := row.Scan(&e.EntryID, &e.RegulationID, &e.Sequence, &ts,
		&e.ContentHash, &e.PrevHash, &record); err != nil {
		return e, err
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return e, fmt.Errorf("parse entry timestamp: %w", err)
	}
	e.Timestamp = t

	var rec clausediff.ChangeRecord
	if err := json.Unmarshal([]byte(record), &rec); err != nil {
		return e, fmt.Errorf("decode change record: %w", err)
	}
	e.Record = rec
	return e, nil
}
