package model

// DemandBin is one entry of the charging demand distribution: the range an
// arriving EV needs replenished and its relative weight in percent.
type DemandBin struct {
	Km     float64 `json:"km" yaml:"km"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// SimulationConfig is the declarative input of one simulation run.
type SimulationConfig struct {
	// Chargers holds one rated power in kW per physical unit, in allocation order.
	Chargers []float64 `json:"chargers" yaml:"chargers"`
	// DemandTable maps a demand magnitude in km to a weight in percent.
	DemandTable []DemandBin `json:"demandTable" yaml:"demandTable"`
	// ArrivalProfile holds 24 hourly probabilities (percent) that one EV arrives.
	ArrivalProfile []float64 `json:"arrivalProfile" yaml:"arrivalProfile"`
	// ConsumptionFactor is the EV consumption in kWh per 100 km.
	ConsumptionFactor float64 `json:"consumptionFactor" yaml:"consumptionFactor"`
}

// InstalledPowerKw returns the rated power of the whole fleet.
func (c SimulationConfig) InstalledPowerKw() float64 {
	var sum float64
	for _, p := range c.Chargers {
		sum += p
	}
	return sum
}

// DayResult is the aggregate of one simulated day.
type DayResult struct {
	MaxPowerKw        float64 `json:"maxPowerKw" yaml:"maxPowerKw"`
	EnergyConsumedKwh float64 `json:"energyConsumedKwh" yaml:"energyConsumedKwh"`
}

// SimulationResult is the complete output of a run, one DayResult per day in
// chronological order.
type SimulationResult struct {
	Results             []DayResult `json:"results" yaml:"results"`
	TotalEnergyConsumed float64     `json:"totalEnergyConsumed" yaml:"totalEnergyConsumed"`
	TotalMaxPowerKw     float64     `json:"totalMaxPowerKw" yaml:"totalMaxPowerKw"`
}
