package sim

import (
	"math/rand"

	"github.com/kilianp07/chargesim/core/model"
)

// constSource makes every Float64 draw return the same value.
type constSource struct{ v int64 }

func (s constSource) Int63() int64 { return s.v }
func (constSource) Seed(int64)     {}

// fixedRand returns a generator whose Float64 always yields 0.5.
func fixedRand() *rand.Rand { return rand.New(constSource{v: 1 << 62}) }

func flatProfile(p float64) []float64 {
	prof := make([]float64, HoursPerDay)
	for i := range prof {
		prof[i] = p
	}
	return prof
}

func chargersOf(n int, powerKw float64) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = powerKw
	}
	return c
}

// referenceConfig is the single 11 kW charger scenario observed in production usage.
func referenceConfig() model.SimulationConfig {
	return model.SimulationConfig{
		Chargers: []float64{11},
		DemandTable: []model.DemandBin{
			{Km: 0, Weight: 34.31}, {Km: 5, Weight: 4.90}, {Km: 10, Weight: 9.80},
			{Km: 20, Weight: 11.76}, {Km: 30, Weight: 8.82}, {Km: 50, Weight: 11.76},
			{Km: 100, Weight: 10.78}, {Km: 200, Weight: 4.90}, {Km: 300, Weight: 2.94},
		},
		ArrivalProfile: []float64{
			0.94, 0.94, 0.94, 0.94, 0.94, 0.94, 0.94, 0.94, 2.83, 2.83, 5.66, 5.66,
			5.66, 7.55, 7.55, 7.55, 10.38, 10.38, 10.38, 4.72, 4.72, 4.72, 0.94, 0.94,
		},
		ConsumptionFactor: 18,
	}
}

// busyConfig forces an arrival every hour, each needing 18 kWh.
func busyConfig(chargers []float64) model.SimulationConfig {
	return model.SimulationConfig{
		Chargers:          chargers,
		DemandTable:       []model.DemandBin{{Km: 100, Weight: 100}},
		ArrivalProfile:    flatProfile(100),
		ConsumptionFactor: 18,
	}
}
