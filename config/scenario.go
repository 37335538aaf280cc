package config

import (
	"github.com/kilianp07/chargesim/core/model"
	"github.com/kilianp07/chargesim/core/sim"
)

// ScenarioConfig describes the charging site and its demand.
type ScenarioConfig struct {
	Chargers          []model.ChargerGroup `json:"chargers"`
	DemandTable       []model.DemandBin    `json:"demand_table"`
	ArrivalProfile    []float64            `json:"arrival_profile"`
	ConsumptionFactor float64              `json:"consumption_factor"`
}

// SimulationConfig expands charger groups into the engine configuration.
func (c ScenarioConfig) SimulationConfig() (model.SimulationConfig, error) {
	chargers, err := model.ExpandChargers(c.Chargers)
	if err != nil {
		return model.SimulationConfig{}, err
	}
	return model.SimulationConfig{
		Chargers:          chargers,
		DemandTable:       append([]model.DemandBin(nil), c.DemandTable...),
		ArrivalProfile:    append([]float64(nil), c.ArrivalProfile...),
		ConsumptionFactor: c.ConsumptionFactor,
	}, nil
}

// Validate expands the scenario and checks it with the engine rules.
func (c ScenarioConfig) Validate() error {
	cfg, err := c.SimulationConfig()
	if err != nil {
		return err
	}
	return sim.Validate(cfg)
}
