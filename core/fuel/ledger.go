// Package fuel records refuel operations.
package fuel

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AutoLocation tags refuels performed as part of a mission admission.
const AutoLocation = "Station-service (auto)"

// ErrInvalidEntry is returned for entries without a truck or a positive quantity.
var ErrInvalidEntry = errors.New("invalid fuel entry")

// Entry is one refuel of a truck.
type Entry struct {
	ID        string    `json:"id"`
	TruckID   string    `json:"truck_id"`
	MissionID string    `json:"mission_id,omitempty"`
	Liters    float64   `json:"liters"`
	Cost      float64   `json:"cost"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Prepare assigns an id and timestamp when missing and validates the entry.
func (e *Entry) Prepare(now time.Time) error {
	if e.TruckID == "" || !(e.Liters > 0) {
		return ErrInvalidEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
	return nil
}

// Query filters ledger entries. Zero values match everything.
type Query struct {
	TruckID string
	Start   time.Time
	End     time.Time
}

// Match reports whether e satisfies q.
func (q Query) Match(e Entry) bool {
	if q.TruckID != "" && e.TruckID != q.TruckID {
		return false
	}
	if !q.Start.IsZero() && e.CreatedAt.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && e.CreatedAt.After(q.End) {
		return false
	}
	return true
}

// Ledger persists refuel entries.
type Ledger interface {
	Record(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}

// MemoryLedger keeps entries in memory.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryLedger() *MemoryLedger { return &MemoryLedger{} }

func (l *MemoryLedger) Record(ctx context.Context, e Entry) (Entry, error) {
	if err := e.Prepare(time.Now()); err != nil {
		return Entry{}, err
	}
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return e, nil
}

// List returns matching entries, oldest first.
func (l *MemoryLedger) List(ctx context.Context, q Query) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var res []Entry
	for _, e := range l.entries {
		if q.Match(e) {
			res = append(res, e)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (l *MemoryLedger) Close() error { return nil }
