package sim

import (
	"math/rand"
	"sort"

	"github.com/kilianp07/chargesim/core/model"
)

// Sampler draws hourly arrivals and per-arrival demand. It keeps no state
// between draws; all randomness comes from the generator passed in.
type Sampler struct {
	profile     [HoursPerDay]float64
	km          []float64 // ascending, positive-weight bins only
	cumulative  []float64
	total       float64
	consumption float64
}

// NewSampler builds a Sampler from the distributions in cfg. Zero-weight bins
// are never drawn and are dropped up front.
func NewSampler(cfg model.SimulationConfig) (*Sampler, error) {
	if len(cfg.DemandTable) == 0 {
		return nil, configErrorf("demandTable", "at least one demand entry required")
	}
	if len(cfg.ArrivalProfile) != HoursPerDay {
		return nil, configErrorf("arrivalProfile", "want %d hourly values, got %d", HoursPerDay, len(cfg.ArrivalProfile))
	}
	bins := make([]model.DemandBin, 0, len(cfg.DemandTable))
	for _, b := range cfg.DemandTable {
		if b.Weight > 0 {
			bins = append(bins, b)
		}
	}
	sort.SliceStable(bins, func(i, j int) bool { return bins[i].Km < bins[j].Km })

	s := &Sampler{consumption: cfg.ConsumptionFactor}
	copy(s.profile[:], cfg.ArrivalProfile)
	for _, b := range bins {
		s.total += b.Weight
		s.km = append(s.km, b.Km)
		s.cumulative = append(s.cumulative, s.total)
	}
	if s.total <= 0 {
		return nil, configErrorf("demandTable", "weights sum to zero")
	}
	return s, nil
}

// Arrives reports whether one EV arrives during hour (0-23).
func (s *Sampler) Arrives(hour int, rng *rand.Rand) bool {
	if hour < 0 || hour >= HoursPerDay {
		return false
	}
	return rng.Float64()*100 < s.profile[hour]
}

// SampleDemandKm draws a demand magnitude. The uniform draw is scaled to the
// table's total weight and resolved to the first bin whose cumulative weight
// meets or exceeds it.
func (s *Sampler) SampleDemandKm(rng *rand.Rand) (float64, error) {
	if len(s.km) == 0 || s.total <= 0 {
		return 0, configErrorf("demandTable", "empty demand distribution")
	}
	u := rng.Float64() * s.total
	idx := sort.SearchFloat64s(s.cumulative, u)
	if idx >= len(s.km) {
		idx = len(s.km) - 1
	}
	return s.km[idx], nil
}

// EnergyForDemand converts a demand in km to the energy required in kWh.
func (s *Sampler) EnergyForDemand(km float64) float64 {
	return km * s.consumption / 100
}
