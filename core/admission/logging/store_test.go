package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/model"
)

func records(base time.Time) []LogRecord {
	admit := admission.Decision{Outcome: admission.OutcomeAdmitted, Stage: admission.StageDone, EstimatedHours: 7.5}
	reject := admission.Decision{Outcome: admission.OutcomeRejected, Reason: admission.ReasonTruckWindowConflict, Stage: admission.StageTruck}
	return []LogRecord{
		NewRecord(base, model.MissionDraft{DriverID: "d1", TruckID: "t1", DistanceKm: 340}, admit),
		NewRecord(base.Add(time.Hour), model.MissionDraft{DriverID: "d2", TruckID: "t1", DistanceKm: 120}, reject),
	}
}

func exercise(t *testing.T, store LogStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for _, r := range records(base) {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	out, err := store.Query(ctx, LogQuery{TruckID: "t1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	out, _ = store.Query(ctx, LogQuery{Tag: "reject-truck"})
	if len(out) != 1 || out[0].DriverID != "d2" || out[0].Decision.Reason != admission.ReasonTruckWindowConflict {
		t.Fatalf("tag filter failed: %#v", out)
	}
	out, _ = store.Query(ctx, LogQuery{DriverID: "d1", End: base.Add(time.Minute)})
	if len(out) != 1 || out[0].Decision.EstimatedHours != 7.5 {
		t.Fatalf("driver filter failed: %#v", out)
	}
	out, _ = store.Query(ctx, LogQuery{Start: base.Add(2 * time.Hour)})
	if len(out) != 0 {
		t.Fatalf("expected no record, got %d", len(out))
	}
}

func TestSQLiteStore_PersistQuery(t *testing.T) {
	store, err := NewSQLiteStore("file:admission.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestJSONLStore_PersistQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admission.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	exercise(t, store)
}

func TestJSONLStore_SkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admission.jsonl")
	if err := os.WriteFile(path, []byte("not json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	rec := records(time.Now())[0]
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.Query(context.Background(), LogQuery{})
	if err != nil || len(out) != 1 || out[0].Tag != "admit" {
		t.Fatalf("unexpected result %v %#v", err, out)
	}
}

func TestRotatingJSONLStore_PersistQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "admission.log")
	store, err := NewRotatingJSONLStore(path, 1, 3, 7)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	out, err := store.Query(context.Background(), LogQuery{})
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty store, got %v %#v", err, out)
	}
	exercise(t, store)
}

func TestRotatingJSONLStore_ReadsBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admission.log")
	old := records(time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC))[0]
	b, err := json.Marshal(old)
	if err != nil {
		t.Fatal(err)
	}
	backup := filepath.Join(dir, "admission-2025-03-09T12-00-00.000.log")
	if err := os.WriteFile(backup, append(b, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewRotatingJSONLStore(path, 1, 0, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.Append(context.Background(), records(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))[1]); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.Query(context.Background(), LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 || out[0].Tag != "admit" || out[1].Tag != "reject-truck" {
		t.Fatalf("unexpected records %#v", out)
	}
}
