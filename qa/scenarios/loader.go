// Package scenarios replays YAML-described charging sites through the engine
// and checks the outcome against recorded expectations.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/chargesim/core/model"
)

// Expected lists the checks applied to a scenario outcome. Zero values skip a check.
type Expected struct {
	// ConfigError names the field rejected by validation; the run must fail.
	ConfigError string `yaml:"config_error,omitempty"`
	// MaxPowerIn restricts every daily peak to one of these values.
	MaxPowerIn           []float64 `yaml:"max_power_in,omitempty"`
	MinActiveDays        int       `yaml:"min_active_days,omitempty"`
	MaxActiveDays        *int      `yaml:"max_active_days,omitempty"`
	MaxConcurrencyFactor float64   `yaml:"max_concurrency_factor,omitempty"`
	TotalEnergyKwh       *float64  `yaml:"total_energy_kwh,omitempty"`
	Dropped              *int      `yaml:"dropped,omitempty"`
}

type Scenario struct {
	Name              string               `yaml:"name"`
	Description       string               `yaml:"description,omitempty"`
	Chargers          []model.ChargerGroup `yaml:"chargers"`
	DemandTable       []model.DemandBin    `yaml:"demand_table"`
	ArrivalProfile    []float64            `yaml:"arrival_profile"`
	ConsumptionFactor float64              `yaml:"consumption_factor"`
	Seed              int64                `yaml:"seed"`
	Days              int                  `yaml:"days"`
	Expected          Expected             `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario has no name", path)
	}
	return &sc, nil
}

// SimulationConfig expands the scenario into an engine configuration.
func (sc Scenario) SimulationConfig() (model.SimulationConfig, error) {
	chargers, err := model.ExpandChargers(sc.Chargers)
	if err != nil {
		return model.SimulationConfig{}, err
	}
	return model.SimulationConfig{
		Chargers:          chargers,
		DemandTable:       sc.DemandTable,
		ArrivalProfile:    sc.ArrivalProfile,
		ConsumptionFactor: sc.ConsumptionFactor,
	}, nil
}
