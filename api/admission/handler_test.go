package admission

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kilianp07/fleetops/app"
	coreadmission "github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/admission/logging"
	"github.com/kilianp07/fleetops/core/fleet"
	"github.com/kilianp07/fleetops/core/fuel"
	"github.com/kilianp07/fleetops/core/model"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type memLogs struct{ recs []logging.LogRecord }

func (m *memLogs) Append(_ context.Context, r logging.LogRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memLogs) Query(_ context.Context, q logging.LogQuery) ([]logging.LogRecord, error) {
	var out []logging.LogRecord
	for _, r := range m.recs {
		if q.Tag != "" && r.Tag != q.Tag {
			continue
		}
		if q.DriverID != "" && r.DriverID != q.DriverID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memLogs) Close() error { return nil }

func newRouter(t *testing.T, token string) http.Handler {
	t.Helper()
	store := fleet.NewMemoryStore(model.Snapshot{
		Drivers: []model.Driver{
			{ID: "d1", Name: "Amine", HoursWorked: 10, ContractualHours: 40},
			{ID: "d2", Name: "Sara", HoursWorked: 38, ContractualHours: 40},
		},
		Trucks: []model.Truck{
			{ID: "t1", Plate: "1234-A-5", TankCapacity: 400, CurrentFuel: 300, AvgConsumption: 25},
			{ID: "t2", Plate: "9876-B-1", TankCapacity: 400, CurrentFuel: 50, AvgConsumption: 25},
		},
	}, fleet.Options{PricePerLiter: 15})
	svc, err := app.NewService(app.Deps{Store: store, Logs: &memLogs{}})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return NewRouter(svc, token)
}

func draft(driver, truck string) model.MissionDraft {
	return model.MissionDraft{
		DriverID:      driver,
		TruckID:       truck,
		PickupTime:    day.Add(8 * time.Hour),
		DropoffTime:   day.Add(14 * time.Hour),
		DistanceKm:    340,
		DepartureCity: "Casablanca",
		ArrivalCity:   "Marrakech",
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	rr := do(t, newRouter(t, ""), http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestEvaluate(t *testing.T) {
	h := newRouter(t, "")
	rr := do(t, h, http.MethodPost, "/api/admission/evaluate", draft("d2", "t1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	dec := decode[coreadmission.Decision](t, rr)
	if dec.Reason != coreadmission.ReasonDriverBudgetExceeded || dec.Driver == nil {
		t.Fatalf("unexpected decision %#v", dec)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admission/evaluate", bytes.NewBufferString("{"))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}
}

func TestCreateMissionStatuses(t *testing.T) {
	h := newRouter(t, "")
	rr := do(t, h, http.MethodPost, "/api/missions", draft("d1", "t1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	res := decode[app.Result](t, rr)
	if res.Mission == nil || res.Mission.Status != model.StatusPending {
		t.Fatalf("unexpected result %#v", res)
	}

	rr = do(t, h, http.MethodPost, "/api/missions", draft("d1", "t1"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a booked truck, got %d", rr.Code)
	}
	if got := decode[app.Result](t, rr).Decision.Tag(); got != "reject-truck" {
		t.Fatalf("expected reject-truck, got %s", got)
	}

	rr = do(t, h, http.MethodPost, "/api/missions", draft("d1", "t2"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for a refuel decision, got %d", rr.Code)
	}
	if got := decode[app.Result](t, rr).Decision; len(got.RefuelOptions) != 2 {
		t.Fatalf("expected two refuel options, got %#v", got.RefuelOptions)
	}
}

func TestRefuelMission(t *testing.T) {
	h := newRouter(t, "")
	rr := do(t, h, http.MethodPost, "/api/admission/refuel", map[string]any{"draft": draft("d1", "t2"), "choice": "bogus"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown choice, got %d", rr.Code)
	}

	rr = do(t, h, http.MethodPost, "/api/admission/refuel", map[string]any{"draft": draft("d1", "t2"), "choice": "topToFull"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	res := decode[app.Result](t, rr)
	if res.Refuel == nil || res.Refuel.Liters != 350 || res.Refuel.Location != fuel.AutoLocation {
		t.Fatalf("unexpected refuel %#v", res.Refuel)
	}

	rr = do(t, h, http.MethodGet, "/api/fuel/ledger?truck_id=t2", nil)
	entries := decode[[]fuel.Entry](t, rr)
	if len(entries) != 1 || entries[0].MissionID != res.Mission.ID {
		t.Fatalf("unexpected ledger %#v", entries)
	}
}

func TestRefuelDeclineIsUnprocessable(t *testing.T) {
	h := newRouter(t, "")
	rr := do(t, h, http.MethodPost, "/api/admission/refuel", map[string]any{"draft": draft("d1", "t2"), "choice": "decline"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rr.Code)
	}
	if got := decode[app.Result](t, rr).Decision.Outcome; got != coreadmission.OutcomeCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}
}

func TestEstimate(t *testing.T) {
	h := newRouter(t, "")
	rr := do(t, h, http.MethodGet, "/api/admission/estimate?distance_km=340", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	b := decode[coreadmission.HoursBreakdown](t, rr)
	if b.Total != coreadmission.EstimateWorkHours(340) {
		t.Fatalf("unexpected breakdown %#v", b)
	}
	for _, q := range []string{"far", "Inf", "-Inf", "NaN"} {
		rr = do(t, h, http.MethodGet, "/api/admission/estimate?distance_km="+q, nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("distance_km=%s: expected 400, got %d", q, rr.Code)
		}
	}
}

func TestLogsAuthAndFilters(t *testing.T) {
	h := newRouter(t, "tok")
	do(t, h, http.MethodPost, "/api/admission/evaluate", draft("d1", "t1"))
	do(t, h, http.MethodPost, "/api/admission/evaluate", draft("d2", "t1"))

	rr := do(t, h, http.MethodGet, "/api/admission/logs", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/api/admission/logs?tag=reject-driver", nil, "Authorization", "Bearer tok")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	recs := decode[[]logging.LogRecord](t, rr)
	if len(recs) != 1 || recs[0].DriverID != "d2" {
		t.Fatalf("unexpected records %#v", recs)
	}
	rr = do(t, h, http.MethodGet, "/api/admission/logs?start=yesterday", nil, "Authorization", "Bearer tok")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad start, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/api/fuel/ledger", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on ledger, got %d", rr.Code)
	}
}

func TestRefuelTruck(t *testing.T) {
	h := newRouter(t, "")
	rr := do(t, h, http.MethodPost, "/api/trucks/t1/refuel", map[string]float64{"quantity": 0})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/trucks/t1/refuel", map[string]float64{"quantity": 40})
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if e := decode[fuel.Entry](t, rr); e.Liters != 40 || e.Cost != 600 {
		t.Fatalf("unexpected entry %#v", e)
	}
	rr = do(t, h, http.MethodPost, "/api/trucks/t9/refuel", map[string]float64{"quantity": 40})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/trucks/t1/refuel", map[string]float64{"quantity": 500})
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/trucks/t1/refuel", map[string]float64{"quantity": 5})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on a full tank, got %d", rr.Code)
	}
}

func TestMissionTransitions(t *testing.T) {
	h := newRouter(t, "")
	res := decode[app.Result](t, do(t, h, http.MethodPost, "/api/missions", draft("d1", "t1")))
	id := res.Mission.ID

	rr := do(t, h, http.MethodPost, "/api/missions/"+id+"/complete", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/missions/"+id+"/start", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("start status %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/missions/"+id+"/complete", nil)
	if m := decode[model.Mission](t, rr); m.Status != model.StatusCompleted || m.HoursWorked != 6 {
		t.Fatalf("unexpected mission %#v", m)
	}
	rr = do(t, h, http.MethodGet, "/api/missions/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/missions/missing/cancel", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDriverStats(t *testing.T) {
	h := newRouter(t, "")
	res := decode[app.Result](t, do(t, h, http.MethodPost, "/api/missions", draft("d1", "t1")))
	do(t, h, http.MethodPost, "/api/missions/"+res.Mission.ID+"/start", nil)
	do(t, h, http.MethodPost, "/api/missions/"+res.Mission.ID+"/complete", nil)

	rr := do(t, h, http.MethodGet, "/api/drivers/d1/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	st := decode[model.DriverStats](t, rr)
	if st.CompletedMissions != 1 || st.TotalKilometers != 340 || st.TotalHoursWorked != 6 {
		t.Fatalf("unexpected stats %#v", st)
	}
	rr = do(t, h, http.MethodGet, "/api/drivers/ghost/stats", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
