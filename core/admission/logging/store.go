// Package logging persists admission decisions for later audit.
package logging

import (
	"context"
	"time"

	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/model"
)

// LogRecord captures one admission evaluation.
type LogRecord struct {
	Timestamp time.Time          `json:"timestamp"`
	Tag       string             `json:"tag"`
	DriverID  string             `json:"driver_id"`
	TruckID   string             `json:"truck_id"`
	Draft     model.MissionDraft `json:"draft"`
	Decision  admission.Decision `json:"decision"`
	// MissionID is the mission created from an admitted draft.
	MissionID string `json:"mission_id,omitempty"`
	// CommitError is set when an admitted draft could not be turned into a
	// mission.
	CommitError string `json:"commit_error,omitempty"`
}

// NewRecord builds the record of dec taken for draft at ts.
func NewRecord(ts time.Time, draft model.MissionDraft, dec admission.Decision) LogRecord {
	return LogRecord{
		Timestamp: ts,
		Tag:       dec.Tag(),
		DriverID:  draft.DriverID,
		TruckID:   draft.TruckID,
		Draft:     draft,
		Decision:  dec,
	}
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	DriverID string
	TruckID  string
	Tag      string
}

func (q LogQuery) match(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.DriverID != "" && r.DriverID != q.DriverID {
		return false
	}
	if q.TruckID != "" && r.TruckID != q.TruckID {
		return false
	}
	return q.Tag == "" || r.Tag == q.Tag
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
