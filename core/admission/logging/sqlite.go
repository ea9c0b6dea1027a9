package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS admission_logs (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        INTEGER NOT NULL,
	tag       TEXT NOT NULL,
	outcome   TEXT NOT NULL,
	reason    TEXT NOT NULL DEFAULT '',
	driver_id TEXT NOT NULL DEFAULT '',
	truck_id  TEXT NOT NULL DEFAULT '',
	record    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS admission_logs_ts ON admission_logs (ts);`

// SQLiteStore keeps admission records in a SQLite table. The full record is
// stored as JSON next to the columns used for filtering.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path, creating the table if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, errors.Join(fmt.Errorf("create schema: %w", err), db.Close())
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec LogRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admission_logs (ts, tag, outcome, reason, driver_id, truck_id, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UnixNano(), rec.Tag, string(rec.Decision.Outcome), string(rec.Decision.Reason),
		rec.DriverID, rec.TruckID, string(b))
	return err
}

// where renders q as a WHERE clause with its bind arguments.
func (q LogQuery) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, v any) {
		clauses = append(clauses, clause)
		args = append(args, v)
	}
	if !q.Start.IsZero() {
		add("ts >= ?", q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		add("ts <= ?", q.End.UnixNano())
	}
	if q.DriverID != "" {
		add("driver_id = ?", q.DriverID)
	}
	if q.TruckID != "" {
		add("truck_id = ?", q.TruckID)
	}
	if q.Tag != "" {
		add("tag = ?", q.Tag)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Query returns the records matching q in insertion order.
func (s *SQLiteStore) Query(ctx context.Context, q LogQuery) ([]LogRecord, error) {
	where, args := q.where()
	rows, err := s.db.QueryContext(ctx, "SELECT record FROM admission_logs"+where+" ORDER BY ts, id", args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []LogRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec LogRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
