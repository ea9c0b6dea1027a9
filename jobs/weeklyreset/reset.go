// Package weeklyreset zeroes driver worked hours at the start of each
// weekly cycle.
package weeklyreset

import (
	"context"
	"time"

	"github.com/kilianp07/fleetops/core/logger"
)

// Resetter clears the worked hours of every driver and reports how many
// drivers were reset.
type Resetter interface {
	ResetWeeklyHours() int
}

// NextReset returns the first instant strictly after now falling on day at
// hour:00 in now's location.
func NextReset(now time.Time, day time.Weekday, hour int) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, hour, 0, 0, 0, now.Location())
	offset := (int(day) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, offset)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Runner performs the reset on schedule.
type Runner struct {
	Store Resetter
	Day   time.Weekday
	Hour  int
	Log   logger.Logger
	// OnReset is called after each reset with the number of drivers reset.
	OnReset func(n int)

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewRunner creates a Runner resetting store on day at hour.
func NewRunner(store Resetter, day time.Weekday, hour int, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{Store: store, Day: day, Hour: hour, Log: log, now: time.Now, after: time.After}
}

// Run blocks until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	for {
		next := NextReset(r.now(), r.Day, r.Hour)
		r.Log.Debugf("next weekly hours reset at %s", next.Format(time.RFC3339))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.after(time.Until(next)):
		}
		n := r.Store.ResetWeeklyHours()
		r.Log.Infow("weekly hours reset", map[string]any{"drivers": n})
		if r.OnReset != nil {
			r.OnReset(n)
		}
	}
}
