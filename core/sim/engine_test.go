package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargesim/core/model"
)

func TestSimulateReferenceScenario(t *testing.T) {
	res, err := Simulate(referenceConfig(), NewSimulationKey(1))
	require.NoError(t, err)
	require.Len(t, res.Results, DefaultHorizonDays)

	busyDays := 0
	for i, d := range res.Results {
		assert.Contains(t, []float64{0, 11}, d.MaxPowerKw, "day %d", i)
		if d.MaxPowerKw == 11 {
			busyDays++
		}
	}
	assert.Positive(t, busyDays)
	assert.Equal(t, 11.0, res.TotalMaxPowerKw)
}

func TestSimulateResultInvariants(t *testing.T) {
	cfg := referenceConfig()
	cfg.Chargers = []float64{11, 22, 7.4, 50}
	cfg.ArrivalProfile = flatProfile(60)

	for _, days := range []int{1, 7, 90} {
		res, err := Simulate(cfg, NewSimulationKey(42), WithHorizonDays(days))
		require.NoError(t, err)
		require.Len(t, res.Results, days)

		var sum, peak float64
		for _, d := range res.Results {
			assert.GreaterOrEqual(t, d.EnergyConsumedKwh, 0.0)
			assert.GreaterOrEqual(t, d.MaxPowerKw, 0.0)
			assert.LessOrEqual(t, d.MaxPowerKw, cfg.InstalledPowerKw())
			sum += d.EnergyConsumedKwh
			peak = math.Max(peak, d.MaxPowerKw)
		}
		assert.Equal(t, sum, res.TotalEnergyConsumed)
		assert.Equal(t, peak, res.TotalMaxPowerKw)
	}
}

func TestSimulateNoArrivals(t *testing.T) {
	cfg := referenceConfig()
	cfg.ArrivalProfile = flatProfile(0)
	res, err := Simulate(cfg, NewSimulationKey(5), WithHorizonDays(30))
	require.NoError(t, err)
	for _, d := range res.Results {
		assert.Equal(t, model.DayResult{}, d)
	}
	assert.Zero(t, res.TotalEnergyConsumed)
	assert.Zero(t, res.TotalMaxPowerKw)
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := referenceConfig()
	cfg.Chargers = chargersOf(4, 11)
	a, err := Simulate(cfg, NewSimulationKey(99))
	require.NoError(t, err)
	b, err := Simulate(cfg, NewSimulationKey(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	e, err := New(cfg)
	require.NoError(t, err)
	c, err := e.Run(NewSimulationKey(99).NewRand())
	require.NoError(t, err)
	assert.Equal(t, a, c, "reusing an engine must not carry state between runs")
}

func TestSimulateMoreChargersNeverDeliverLess(t *testing.T) {
	cfg := referenceConfig()
	cfg.ArrivalProfile = flatProfile(70)
	prev := -1.0
	for n := 1; n <= 8; n++ {
		cfg.Chargers = chargersOf(n, 11)
		res, err := Simulate(cfg, NewSimulationKey(2024), WithHorizonDays(60))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.TotalEnergyConsumed, prev, "n=%d", n)
		prev = res.TotalEnergyConsumed
	}
}

func TestSimulateBusyScenarioExact(t *testing.T) {
	res, err := Simulate(busyConfig([]float64{11}), NewSimulationKey(0), WithHorizonDays(3))
	require.NoError(t, err)
	for _, d := range res.Results {
		assert.InDelta(t, 216.0, d.EnergyConsumedKwh, 1e-9)
		assert.Equal(t, 11.0, d.MaxPowerKw)
	}
	assert.InDelta(t, 648.0, res.TotalEnergyConsumed, 1e-9)
}

func TestEngineObserverTally(t *testing.T) {
	cfg := referenceConfig()
	cfg.ArrivalProfile = flatProfile(40)
	tally := &Tally{}
	_, err := Simulate(cfg, NewSimulationKey(8), WithHorizonDays(30), WithObserver(tally))
	require.NoError(t, err)
	assert.Positive(t, tally.Arrivals)
	assert.Equal(t, tally.Arrivals, tally.Charging+tally.Dropped)
	assert.LessOrEqual(t, tally.Completed, tally.Charging)
	assert.GreaterOrEqual(t, tally.Completed, tally.Charging-len(cfg.Chargers))
}

func TestEngineCopiesConfig(t *testing.T) {
	cfg := referenceConfig()
	e, err := New(cfg, WithHorizonDays(20))
	require.NoError(t, err)
	want, err := e.Run(NewSimulationKey(3).NewRand())
	require.NoError(t, err)

	cfg.Chargers[0] = 1000
	cfg.ArrivalProfile[12] = 100
	got, err := e.Run(NewSimulationKey(3).NewRand())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 20, e.HorizonDays())
	assert.Equal(t, 11.0, e.Config().Chargers[0])
}

func TestEngineRejectsNilGenerator(t *testing.T) {
	e, err := New(referenceConfig())
	require.NoError(t, err)
	_, err = e.Run(nil)
	assert.Error(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SimulationConfig)
		opts   []Option
		field  string
	}{
		{"no chargers", func(c *model.SimulationConfig) { c.Chargers = nil }, nil, "chargers"},
		{"zero power", func(c *model.SimulationConfig) { c.Chargers = []float64{11, 0} }, nil, "chargers"},
		{"nan power", func(c *model.SimulationConfig) { c.Chargers = []float64{math.NaN()} }, nil, "chargers"},
		{"empty demand", func(c *model.SimulationConfig) { c.DemandTable = nil }, nil, "demandTable"},
		{"negative km", func(c *model.SimulationConfig) { c.DemandTable[0].Km = -5 }, nil, "demandTable"},
		{"negative weight", func(c *model.SimulationConfig) {
			c.DemandTable = []model.DemandBin{{Km: 0, Weight: 110}, {Km: 5, Weight: -10}}
		}, nil, "demandTable"},
		{"duplicate km", func(c *model.SimulationConfig) {
			c.DemandTable = []model.DemandBin{{Km: 10, Weight: 50}, {Km: 10, Weight: 50}}
		}, nil, "demandTable"},
		{"weights off", func(c *model.SimulationConfig) { c.DemandTable[0].Weight = 10 }, nil, "demandTable"},
		{"short profile", func(c *model.SimulationConfig) { c.ArrivalProfile = c.ArrivalProfile[:23] }, nil, "arrivalProfile"},
		{"profile above 100", func(c *model.SimulationConfig) { c.ArrivalProfile[5] = 101 }, nil, "arrivalProfile"},
		{"profile negative", func(c *model.SimulationConfig) { c.ArrivalProfile[5] = -1 }, nil, "arrivalProfile"},
		{"zero consumption", func(c *model.SimulationConfig) { c.ConsumptionFactor = 0 }, nil, "consumptionFactor"},
		{"zero horizon", func(*model.SimulationConfig) {}, []Option{WithHorizonDays(0)}, "horizonDays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := referenceConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestValidateAcceptsRoundedWeights(t *testing.T) {
	// The reference table sums to 99.97.
	assert.NoError(t, Validate(referenceConfig()))
}
