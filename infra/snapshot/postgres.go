// Package snapshot reads fleet snapshots from external stores.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kilianp07/fleetops/core/logger"
	"github.com/kilianp07/fleetops/core/model"
)

const (
	connectRetries = 5
	retryInterval  = 2 * time.Second
)

// Schema creates the tables read by PostgresProvider.
const Schema = `
CREATE TABLE IF NOT EXISTS drivers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    hours_worked DOUBLE PRECISION NOT NULL DEFAULT 0,
    contractual_hours DOUBLE PRECISION NOT NULL DEFAULT 40,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS trucks (
    id TEXT PRIMARY KEY,
    plate TEXT UNIQUE NOT NULL,
    brand TEXT,
    tank_capacity DOUBLE PRECISION NOT NULL,
    current_fuel DOUBLE PRECISION NOT NULL,
    avg_consumption DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS missions (
    id TEXT PRIMARY KEY,
    driver_id TEXT REFERENCES drivers(id),
    driver_name TEXT,
    truck_id TEXT REFERENCES trucks(id),
    truck_plate TEXT,
    status TEXT NOT NULL,
    pickup_time TIMESTAMPTZ NOT NULL,
    expected_dropoff_time TIMESTAMPTZ NOT NULL,
    distance_km DOUBLE PRECISION NOT NULL,
    departure_city TEXT,
    arrival_city TEXT
);`

const (
	driversQuery = `SELECT id, name, hours_worked, contractual_hours, is_active FROM drivers ORDER BY id`
	trucksQuery  = `SELECT id, plate, COALESCE(brand, ''), tank_capacity, current_fuel, COALESCE(avg_consumption, 0)
        FROM trucks ORDER BY id`
	// terminal missions never influence admission
	missionsQuery = `SELECT id, COALESCE(driver_id, ''), COALESCE(driver_name, ''), COALESCE(truck_id, ''),
        COALESCE(truck_plate, ''), status, pickup_time, expected_dropoff_time, distance_km,
        COALESCE(departure_city, ''), COALESCE(arrival_city, '')
        FROM missions WHERE status IN ('pending', 'in_progress') ORDER BY id`
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type txStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// PostgresProvider builds snapshots from the drivers, trucks and missions
// tables. When backed by a pool the three reads share one read-only
// repeatable-read transaction.
type PostgresProvider struct {
	db querier
}

// NewPostgresProvider wraps an open pool.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{db: pool}
}

// Connect opens a pool on dsn, retrying while the database comes up.
func Connect(ctx context.Context, dsn string, log logger.Logger) (*pgxpool.Pool, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	var err error
	for i := 0; i < connectRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Infof("connected to snapshot database")
				return pool, nil
			}
			pool.Close()
		}
		log.Warnf("snapshot database connect attempt %d/%d: %v", i+1, connectRetries, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("connect snapshot database after %d attempts: %w", connectRetries, err)
}

// Snapshot reads the current fleet state.
func (p *PostgresProvider) Snapshot(ctx context.Context) (model.Snapshot, error) {
	q := p.db
	if b, ok := p.db.(txStarter); ok {
		tx, err := b.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()
		q = tx
	}
	var snap model.Snapshot
	var err error
	if snap.Drivers, err = readDrivers(ctx, q); err != nil {
		return model.Snapshot{}, fmt.Errorf("read drivers: %w", err)
	}
	if snap.Trucks, err = readTrucks(ctx, q); err != nil {
		return model.Snapshot{}, fmt.Errorf("read trucks: %w", err)
	}
	if snap.Missions, err = readMissions(ctx, q); err != nil {
		return model.Snapshot{}, fmt.Errorf("read missions: %w", err)
	}
	return snap, nil
}

func readDrivers(ctx context.Context, q querier) ([]model.Driver, error) {
	rows, err := q.Query(ctx, driversQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Driver
	for rows.Next() {
		var d model.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.HoursWorked, &d.ContractualHours, &d.Active); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func readTrucks(ctx context.Context, q querier) ([]model.Truck, error) {
	rows, err := q.Query(ctx, trucksQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Truck
	for rows.Next() {
		var t model.Truck
		if err := rows.Scan(&t.ID, &t.Plate, &t.Brand, &t.TankCapacity, &t.CurrentFuel, &t.AvgConsumption); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func readMissions(ctx context.Context, q querier) ([]model.Mission, error) {
	rows, err := q.Query(ctx, missionsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Mission
	for rows.Next() {
		var m model.Mission
		var status string
		if err := rows.Scan(&m.ID, &m.DriverID, &m.DriverName, &m.TruckID, &m.TruckPlate, &status,
			&m.PickupTime, &m.ExpectedDropoffTime, &m.DistanceKm, &m.DepartureCity, &m.ArrivalCity); err != nil {
			return nil, err
		}
		m.Status = model.MissionStatus(status)
		res = append(res, m)
	}
	return res, rows.Err()
}
