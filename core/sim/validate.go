package sim

import (
	"math"

	"github.com/kilianp07/chargesim/core/model"
)

const (
	// HoursPerDay is the length of the arrival profile and of a simulated day.
	HoursPerDay = 24
	// DemandWeightTotal is the expected sum of demand table weights.
	DemandWeightTotal = 100.0
	// DemandWeightTolerance is the accepted deviation from DemandWeightTotal.
	// Published tables are rounded to two decimals and rarely sum to exactly 100.
	DemandWeightTolerance = 0.5
)

// Validate checks cfg and returns a *ConfigError describing the first problem found.
func Validate(cfg model.SimulationConfig) error {
	if len(cfg.Chargers) == 0 {
		return configErrorf("chargers", "at least one charger required")
	}
	for i, p := range cfg.Chargers {
		if !(p > 0) || math.IsInf(p, 0) {
			return configErrorf("chargers", "charger %d: power must be a positive finite number, got %v", i, p)
		}
	}

	if len(cfg.DemandTable) == 0 {
		return configErrorf("demandTable", "at least one demand entry required")
	}
	seen := make(map[float64]bool, len(cfg.DemandTable))
	var total float64
	for i, b := range cfg.DemandTable {
		if !(b.Km >= 0) || math.IsInf(b.Km, 0) {
			return configErrorf("demandTable", "entry %d: km must be a finite number >= 0, got %v", i, b.Km)
		}
		if !(b.Weight >= 0) || math.IsInf(b.Weight, 0) {
			return configErrorf("demandTable", "entry %d: weight must be a finite number >= 0, got %v", i, b.Weight)
		}
		if seen[b.Km] {
			return configErrorf("demandTable", "duplicate demand %v km", b.Km)
		}
		seen[b.Km] = true
		total += b.Weight
	}
	if math.Abs(total-DemandWeightTotal) > DemandWeightTolerance {
		return configErrorf("demandTable", "weights sum to %.4f, want %.0f (±%.1f)", total, DemandWeightTotal, DemandWeightTolerance)
	}

	if len(cfg.ArrivalProfile) != HoursPerDay {
		return configErrorf("arrivalProfile", "want %d hourly values, got %d", HoursPerDay, len(cfg.ArrivalProfile))
	}
	for h, p := range cfg.ArrivalProfile {
		if !(p >= 0 && p <= 100) {
			return configErrorf("arrivalProfile", "hour %d: probability must be within [0,100], got %v", h, p)
		}
	}

	if !(cfg.ConsumptionFactor > 0) || math.IsInf(cfg.ConsumptionFactor, 0) {
		return configErrorf("consumptionFactor", "must be a positive finite number, got %v", cfg.ConsumptionFactor)
	}
	return nil
}
