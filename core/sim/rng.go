package sim

import "math/rand"

// SimulationKey identifies a reproducible random stream. Two runs with the
// same key and identical configuration produce identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// NewRand returns a fresh generator for the key. Each run must own its own
// generator; *rand.Rand is not safe for concurrent use.
func (k SimulationKey) NewRand() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}
