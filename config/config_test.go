package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargesim/core/model"
	"github.com/kilianp07/chargesim/core/sim"
)

const scenarioYAML = `scenario:
  chargers:
    - id: ac
      count: 2
      power_kw: 11
    - id: dc
      count: 1
      power_kw: 50
  demand_table:
    - km: 0
      weight: 50
    - km: 100
      weight: 50
  arrival_profile: [1, 1, 1, 1, 1, 1, 1, 1, 5, 5, 5, 5, 5, 5, 5, 5, 10, 10, 10, 5, 5, 5, 1, 1]
  consumption_factor: 18
`

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", scenarioYAML+`run:
  name: depot
  seed: 42
  horizon_days: 30
  start_date: "2025-06-01"
output:
  format: csv
  path: out.csv
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: prometheus
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []model.ChargerGroup{{ID: "ac", Count: 2, PowerKw: 11}, {ID: "dc", Count: 1, PowerKw: 50}}, cfg.Scenario.Chargers)
	assert.Equal(t, []model.DemandBin{{Km: 0, Weight: 50}, {Km: 100, Weight: 50}}, cfg.Scenario.DemandTable)
	assert.Len(t, cfg.Scenario.ArrivalProfile, 24)
	assert.Equal(t, 18.0, cfg.Scenario.ConsumptionFactor)
	assert.Equal(t, "depot", cfg.Run.Name)
	assert.EqualValues(t, 42, cfg.Run.Seed)
	assert.Equal(t, 30, cfg.Run.HorizonDays)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "out.csv", cfg.Output.Path)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusAddr)
	require.Len(t, cfg.Metrics.Sinks, 1)
	assert.Equal(t, "prometheus", cfg.Metrics.Sinks[0].Type)
	assert.Equal(t, "debug", cfg.Logging.Level)

	simCfg, err := cfg.Scenario.SimulationConfig()
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 11, 50}, simCfg.Chargers)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultHorizonDays, cfg.Run.HorizonDays)
	assert.NotEmpty(t, cfg.Run.StartDate)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Sweep.MaxChargers)
	assert.Equal(t, 11.0, cfg.Sweep.PowerKw)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "scenario": {
    "chargers": [{"id": "a", "count": 1, "power_kw": 22}],
    "demand_table": [{"km": 10, "weight": 100}],
    "arrival_profile": [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0],
    "consumption_factor": 20
  },
  "run": {"seed": 5}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 5, cfg.Run.Seed)
	assert.Equal(t, 22.0, cfg.Scenario.Chargers[0].PowerKw)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", scenarioYAML)
	t.Setenv("K_RUN__SEED", "99")
	t.Setenv("K_RUN__HORIZON_DAYS", "7")
	t.Setenv("K_SCENARIO__CONSUMPTION_FACTOR", "21.5")
	t.Setenv("K_LOGGING__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 99, cfg.Run.Seed)
	assert.Equal(t, 7, cfg.Run.HorizonDays)
	assert.Equal(t, 21.5, cfg.Scenario.ConsumptionFactor)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad profile":    `scenario: {chargers: [{count: 1, power_kw: 11}], demand_table: [{km: 1, weight: 100}], arrival_profile: [1, 2], consumption_factor: 18}`,
		"bad weights":    `scenario: {chargers: [{count: 1, power_kw: 11}], demand_table: [{km: 1, weight: 60}], arrival_profile: [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0], consumption_factor: 18}`,
		"no chargers":    `scenario: {chargers: [], demand_table: [{km: 1, weight: 100}], arrival_profile: [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0], consumption_factor: 18}`,
		"negative count": `scenario: {chargers: [{count: -1, power_kw: 11}], demand_table: [{km: 1, weight: 100}], arrival_profile: [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0], consumption_factor: 18}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "config.yaml", scenarioYAML+"output: {format: xml}\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "config.yaml", scenarioYAML+"run: {start_date: yesterday}\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "config.yaml", scenarioYAML+"logging: {level: loud}\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "config.toml", scenarioYAML))
	assert.Error(t, err)
}

func TestScenarioErrorsCarryField(t *testing.T) {
	s := ScenarioConfig{
		Chargers:          []model.ChargerGroup{{Count: 1, PowerKw: 11}},
		DemandTable:       []model.DemandBin{{Km: 1, Weight: 100}},
		ArrivalProfile:    make([]float64, 24),
		ConsumptionFactor: 0,
	}
	err := s.Validate()
	var cfgErr *sim.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "consumptionFactor", cfgErr.Field)
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "config.yaml"))
	require.NoError(t, err)
	simCfg, err := cfg.Scenario.SimulationConfig()
	require.NoError(t, err)
	assert.Equal(t, []float64{11}, simCfg.Chargers)
}
