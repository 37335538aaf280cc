package sim

import (
	"errors"
	"math/rand"
	"time"

	"github.com/kilianp07/chargesim/core/logger"
	"github.com/kilianp07/chargesim/core/model"
)

// DefaultHorizonDays is the simulated horizon when none is given: one year.
const DefaultHorizonDays = 365

// Option configures an Engine.
type Option func(*Engine)

// WithHorizonDays sets the number of simulated days.
func WithHorizonDays(days int) Option {
	return func(e *Engine) { e.horizonDays = days }
}

// WithLogger sets the logger used for run start and completion messages.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers an observer for session transitions.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine runs simulations for one validated configuration. Every call to Run
// uses a fresh charger pool, so an Engine holds no state between runs; it is
// not safe to call Run concurrently with a shared Observer.
type Engine struct {
	cfg         model.SimulationConfig
	sampler     *Sampler
	horizonDays int
	log         logger.Logger
	observer    Observer
}

// New validates cfg and prepares an Engine. Invalid configurations are
// rejected with a *ConfigError before any simulation work.
func New(cfg model.SimulationConfig, opts ...Option) (*Engine, error) {
	e := &Engine{
		horizonDays: DefaultHorizonDays,
		log:         logger.NopLogger{},
		observer:    NopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.horizonDays <= 0 {
		return nil, configErrorf("horizonDays", "must be positive, got %d", e.horizonDays)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	// Own a copy so later mutation by the caller cannot alter a prepared run.
	e.cfg = model.SimulationConfig{
		Chargers:          append([]float64(nil), cfg.Chargers...),
		DemandTable:       append([]model.DemandBin(nil), cfg.DemandTable...),
		ArrivalProfile:    append([]float64(nil), cfg.ArrivalProfile...),
		ConsumptionFactor: cfg.ConsumptionFactor,
	}
	sampler, err := NewSampler(e.cfg)
	if err != nil {
		return nil, err
	}
	e.sampler = sampler
	return e, nil
}

// HorizonDays returns the number of simulated days per run.
func (e *Engine) HorizonDays() int { return e.horizonDays }

// Config returns the validated configuration.
func (e *Engine) Config() model.SimulationConfig { return e.cfg }

// Run simulates the full horizon using rng as the only source of randomness.
// It returns either a complete result or an error, never a partial result.
func (e *Engine) Run(rng *rand.Rand) (model.SimulationResult, error) {
	if rng == nil {
		return model.SimulationResult{}, errors.New("sim: nil random generator")
	}
	start := time.Now()
	e.log.Debugw("simulation started", map[string]any{
		"chargers":     len(e.cfg.Chargers),
		"horizon_days": e.horizonDays,
	})

	pool := NewPool(e.cfg.Chargers)
	st := newStepper(e.sampler, pool, e.observer)
	results := make([]model.DayResult, 0, e.horizonDays)
	var acc DayAccumulator
	for day := 0; day < e.horizonDays; day++ {
		acc.Reset()
		for hour := 0; hour < HoursPerDay; hour++ {
			if err := st.step(day, hour, rng, &acc); err != nil {
				e.log.Errorf("simulation aborted on day %d hour %d: %v", day, hour, err)
				return model.SimulationResult{}, err
			}
		}
		results = append(results, acc.Result())
	}

	res := model.SimulationResult{Results: results}
	for _, d := range results {
		res.TotalEnergyConsumed += d.EnergyConsumedKwh
		if d.MaxPowerKw > res.TotalMaxPowerKw {
			res.TotalMaxPowerKw = d.MaxPowerKw
		}
	}
	e.log.Debugw("simulation finished", map[string]any{
		"total_energy_kwh": res.TotalEnergyConsumed,
		"max_power_kw":     res.TotalMaxPowerKw,
		"elapsed_ms":       time.Since(start).Milliseconds(),
	})
	return res, nil
}

// Simulate validates cfg and runs it with a generator seeded from key.
func Simulate(cfg model.SimulationConfig, key SimulationKey, opts ...Option) (model.SimulationResult, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return model.SimulationResult{}, err
	}
	return e.Run(key.NewRand())
}
