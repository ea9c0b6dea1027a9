package admission

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// AvgSpeedKmh is the average road speed assumed for driving time.
	AvgSpeedKmh = 60.0
	// BreakEveryKm is the driving distance after which a short break is due.
	BreakEveryKm = 300.0
	// BreakHours is the length of one short break.
	BreakHours = 0.5
	// OvernightThresholdKm is the distance above which an overnight rest applies.
	OvernightThresholdKm = 800.0
	// OvernightRestHours is the mandatory overnight rest.
	OvernightRestHours = 8.0
	// DailyLegToleranceKm is the distance around a clean daily-leg split
	// within which no extra overnight stop is forced.
	DailyLegToleranceKm = 250.0
	// LoadingHours is the fixed loading and unloading overhead (80 minutes).
	LoadingHours = 80.0 / 60.0
)

// dailyLegDistances are route lengths that split into clean daily legs.
// Product policy, not a regulatory constraint.
var dailyLegDistances = [...]float64{1600, 2400, 3200, 4800}

// HoursBreakdown details the estimated duty time of a route.
type HoursBreakdown struct {
	DistanceKm    float64 `json:"distance_km"`
	Driving       float64 `json:"driving_hours"`
	Breaks        float64 `json:"break_hours"`
	OvernightRest float64 `json:"overnight_rest_hours"`
	Loading       float64 `json:"loading_hours"`
	Total         float64 `json:"total_hours"`
}

// EstimateWorkHours returns the estimated duty time for a route of
// distanceKm: driving, short breaks, overnight rest and loading.
// Non-positive distances yield 0.
func EstimateWorkHours(distanceKm float64) float64 {
	return Breakdown(distanceKm).Total
}

// Breakdown returns the components of EstimateWorkHours.
func Breakdown(distanceKm float64) HoursBreakdown {
	if !(distanceKm > 0) {
		return HoursBreakdown{}
	}
	b := HoursBreakdown{
		DistanceKm: distanceKm,
		Driving:    distanceKm / AvgSpeedKmh,
		Breaks:     math.Floor(distanceKm/BreakEveryKm) * BreakHours,
		Loading:    LoadingHours,
	}
	if NeedsOvernightRest(distanceKm) {
		b.OvernightRest = OvernightRestHours
	}
	b.Total = b.Driving + b.Breaks + b.OvernightRest + b.Loading
	return b
}

// NeedsOvernightRest reports whether a route of distanceKm gets the
// mandatory overnight rest.
func NeedsOvernightRest(distanceKm float64) bool {
	return distanceKm > OvernightThresholdKm && !nearDailyLeg(distanceKm)
}

func nearDailyLeg(distanceKm float64) bool {
	for _, n := range dailyLegDistances {
		if math.Abs(distanceKm-n) < DailyLegToleranceKm {
			return true
		}
	}
	return false
}

// ParseDistance reads a route distance in kilometers. Infinite and NaN
// values are refused.
func ParseDistance(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("distance %q: not a number", s)
	}
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return 0, fmt.Errorf("distance %q: not finite", s)
	}
	return d, nil
}
