// Package ledger provides persistent fuel ledgers.
package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/fleetops/core/fuel"
)

// SQLiteLedger persists fuel entries in a SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens or creates the database and ensures schema.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS fuel_ledger (
        id TEXT PRIMARY KEY,
        truck_id TEXT NOT NULL,
        mission_id TEXT,
        liters REAL,
        cost REAL,
        location TEXT,
        notes TEXT,
        ts INTEGER
    );
    CREATE INDEX IF NOT EXISTS fuel_ledger_truck ON fuel_ledger(truck_id, ts);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLedger{db: db}, nil
}

// Record inserts the entry.
func (l *SQLiteLedger) Record(ctx context.Context, e fuel.Entry) (fuel.Entry, error) {
	if err := e.Prepare(time.Now()); err != nil {
		return fuel.Entry{}, err
	}
	_, err := l.db.ExecContext(ctx, `INSERT INTO fuel_ledger
        (id, truck_id, mission_id, liters, cost, location, notes, ts)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TruckID, e.MissionID, e.Liters, e.Cost, e.Location, e.Notes, e.CreatedAt.UnixNano())
	if err != nil {
		return fuel.Entry{}, err
	}
	return e, nil
}

// List returns entries matching q, oldest first.
func (l *SQLiteLedger) List(ctx context.Context, q fuel.Query) ([]fuel.Entry, error) {
	var args []any
	query := `SELECT id, truck_id, mission_id, liters, cost, location, notes, ts FROM fuel_ledger WHERE 1=1`
	if q.TruckID != "" {
		query += ` AND truck_id = ?`
		args = append(args, q.TruckID)
	}
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	query += ` ORDER BY ts`
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []fuel.Entry
	for rows.Next() {
		var e fuel.Entry
		var ts int64
		if err := rows.Scan(&e.ID, &e.TruckID, &e.MissionID, &e.Liters, &e.Cost, &e.Location, &e.Notes, &ts); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(0, ts).UTC()
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (l *SQLiteLedger) Close() error { return l.db.Close() }
