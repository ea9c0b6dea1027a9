// Package admission exposes the admission service over HTTP.
package admission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/fleetops/app"
	coreadmission "github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/admission/logging"
	"github.com/kilianp07/fleetops/core/fleet"
	"github.com/kilianp07/fleetops/core/fuel"
	"github.com/kilianp07/fleetops/core/model"
)

// Service is the part of app.Service used by the API.
type Service interface {
	Evaluate(ctx context.Context, draft model.MissionDraft) (coreadmission.Decision, error)
	CreateMission(ctx context.Context, draft model.MissionDraft) (app.Result, error)
	RefuelAndCreateMission(ctx context.Context, draft model.MissionDraft, choice coreadmission.RefuelChoice) (app.Result, error)
	Refuel(ctx context.Context, truckID string, liters float64) (fuel.Entry, error)
	Mission(ctx context.Context, id string) (model.Mission, error)
	DriverStats(ctx context.Context, driverID string) (model.DriverStats, error)
	StartMission(ctx context.Context, id string) (model.Mission, error)
	CompleteMission(ctx context.Context, id string) (model.Mission, error)
	CancelMission(ctx context.Context, id string) (model.Mission, error)
	Logs(ctx context.Context, q logging.LogQuery) ([]logging.LogRecord, error)
	FuelEntries(ctx context.Context, q fuel.Query) ([]fuel.Entry, error)
}

type refuelMissionRequest struct {
	Draft  model.MissionDraft `json:"draft"`
	Choice string             `json:"choice"`
}

type refuelTruckRequest struct {
	Quantity float64 `json:"quantity"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter returns the API routes. Audit endpoints (decision logs and fuel
// ledger) require an Authorization header with "Bearer <token>" when token
// is non-empty.
func NewRouter(svc Service, token string) http.Handler {
	h := &handler{svc: svc}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/admission", func(r chi.Router) {
		r.Post("/evaluate", h.evaluate)
		r.Post("/refuel", h.refuelMission)
		r.Get("/estimate", h.estimate)
		r.With(requireToken(token)).Get("/logs", h.logs)
	})
	r.With(requireToken(token)).Get("/api/fuel/ledger", h.ledger)
	r.Post("/api/trucks/{id}/refuel", h.refuelTruck)
	r.Get("/api/drivers/{id}/stats", h.driverStats)

	r.Route("/api/missions", func(r chi.Router) {
		r.Post("/", h.createMission)
		r.Get("/{id}", h.mission)
		r.Post("/{id}/start", h.transition(svc.StartMission))
		r.Post("/{id}/complete", h.transition(svc.CompleteMission))
		r.Post("/{id}/cancel", h.transition(svc.CancelMission))
	})
	return r
}

type handler struct {
	svc Service
}

func (h *handler) evaluate(w http.ResponseWriter, r *http.Request) {
	var draft model.MissionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft: "+err.Error())
		return
	}
	dec, err := h.svc.Evaluate(r.Context(), draft)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dec)
}

func (h *handler) createMission(w http.ResponseWriter, r *http.Request) {
	var draft model.MissionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft: "+err.Error())
		return
	}
	res, err := h.svc.CreateMission(r.Context(), draft)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, resultStatus(res), res)
}

func (h *handler) refuelMission(w http.ResponseWriter, r *http.Request) {
	var req refuelMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	choice, err := coreadmission.ParseRefuelChoice(req.Choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.RefuelAndCreateMission(r.Context(), req.Draft, choice)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, resultStatus(res), res)
}

func (h *handler) estimate(w http.ResponseWriter, r *http.Request) {
	d, err := coreadmission.ParseDistance(r.URL.Query().Get("distance_km"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "distance_km must be a finite number")
		return
	}
	writeJSON(w, http.StatusOK, coreadmission.Breakdown(d))
}

func (h *handler) logs(w http.ResponseWriter, r *http.Request) {
	q := logging.LogQuery{
		DriverID: r.URL.Query().Get("driver_id"),
		TruckID:  r.URL.Query().Get("truck_id"),
		Tag:      r.URL.Query().Get("tag"),
	}
	var ok bool
	if q.Start, ok = parseTime(w, r, "start"); !ok {
		return
	}
	if q.End, ok = parseTime(w, r, "end"); !ok {
		return
	}
	records, err := h.svc.Logs(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []logging.LogRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) ledger(w http.ResponseWriter, r *http.Request) {
	q := fuel.Query{TruckID: r.URL.Query().Get("truck_id")}
	var ok bool
	if q.Start, ok = parseTime(w, r, "start"); !ok {
		return
	}
	if q.End, ok = parseTime(w, r, "end"); !ok {
		return
	}
	entries, err := h.svc.FuelEntries(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []fuel.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) refuelTruck(w http.ResponseWriter, r *http.Request) {
	var req refuelTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if !(req.Quantity > 0) {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	entry, err := h.svc.Refuel(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *handler) driverStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.DriverStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) mission(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Mission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) transition(fn func(context.Context, string) (model.Mission, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := fn(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resultStatus maps an admission result: created missions are 201, refuel
// decisions 200 and refusals 422.
func resultStatus(res app.Result) int {
	switch {
	case res.Mission != nil:
		return http.StatusCreated
	case res.Decision.Outcome == coreadmission.OutcomeNeedsRefuel:
		return http.StatusOK
	default:
		return http.StatusUnprocessableEntity
	}
}

func statusFor(err error) int {
	switch {
	case app.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, fleet.ErrInvalidTransition),
		errors.Is(err, fleet.ErrWindowTaken),
		errors.Is(err, fleet.ErrMissionExists),
		errors.Is(err, app.ErrTankFull):
		return http.StatusConflict
	case errors.Is(err, fleet.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func parseTime(w http.ResponseWriter, r *http.Request, key string) (time.Time, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		writeError(w, http.StatusBadRequest, key+" must be RFC3339")
		return time.Time{}, false
	}
	return t, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
