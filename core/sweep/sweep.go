// Package sweep measures how the concurrency factor of a site evolves as
// identical chargers are added, one simulation per fleet size.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/chargesim/core/logger"
	"github.com/kilianp07/chargesim/core/model"
	"github.com/kilianp07/chargesim/core/report"
	"github.com/kilianp07/chargesim/core/sim"
	"github.com/kilianp07/chargesim/internal/eventbus"
)

// Point is the outcome for one fleet size.
type Point struct {
	Chargers          int     `json:"chargers" yaml:"chargers"`
	TheoreticalMaxKw  float64 `json:"theoretical_max_kw" yaml:"theoretical_max_kw"`
	ActualMaxKw       float64 `json:"actual_max_kw" yaml:"actual_max_kw"`
	ConcurrencyFactor float64 `json:"concurrency_factor" yaml:"concurrency_factor"`
	TotalEnergyKwh    float64 `json:"total_energy_kwh" yaml:"total_energy_kwh"`
}

// Progress is published on the bus after each finished point.
type Progress struct {
	Done  int
	Total int
	Point Point
}

// Options configures a sweep.
type Options struct {
	MaxChargers int
	PowerKw     float64
	HorizonDays int
	// Parallel bounds concurrent simulations; zero means GOMAXPROCS.
	Parallel int
	Key      sim.SimulationKey
	Bus      *eventbus.Bus[Progress]
	Logger   logger.Logger
}

// Run simulates base with 1..MaxChargers units of PowerKw each. The charger
// list of base is ignored. Every fleet size gets its own generator seeded
// from the same key, so all sizes see the same arrival stream. Points are
// returned in ascending fleet size.
func Run(ctx context.Context, base model.SimulationConfig, opts Options) ([]Point, error) {
	if opts.MaxChargers <= 0 {
		return nil, fmt.Errorf("sweep: max chargers must be positive, got %d", opts.MaxChargers)
	}
	if opts.PowerKw <= 0 {
		return nil, fmt.Errorf("sweep: charger power must be positive, got %g", opts.PowerKw)
	}
	if opts.HorizonDays == 0 {
		opts.HorizonDays = sim.DefaultHorizonDays
	}
	if opts.Parallel <= 0 {
		opts.Parallel = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}

	points := make([]Point, opts.MaxChargers)
	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)
	for n := 1; n <= opts.MaxChargers; n++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := runOne(base, n, opts)
			if err != nil {
				return fmt.Errorf("sweep %d chargers: %w", n, err)
			}
			points[n-1] = p
			d := int(done.Add(1))
			log.Debugf("sweep point %d/%d: %d chargers factor %.3f", d, opts.MaxChargers, n, p.ConcurrencyFactor)
			if opts.Bus != nil {
				opts.Bus.Publish(Progress{Done: d, Total: opts.MaxChargers, Point: p})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func runOne(base model.SimulationConfig, n int, opts Options) (Point, error) {
	cfg := base
	cfg.Chargers = make([]float64, n)
	for i := range cfg.Chargers {
		cfg.Chargers[i] = opts.PowerKw
	}
	engine, err := sim.New(cfg, sim.WithHorizonDays(opts.HorizonDays))
	if err != nil {
		return Point{}, err
	}
	res, err := engine.Run(opts.Key.NewRand())
	if err != nil {
		return Point{}, err
	}
	installed := cfg.InstalledPowerKw()
	return Point{
		Chargers:          n,
		TheoreticalMaxKw:  installed,
		ActualMaxKw:       res.TotalMaxPowerKw,
		ConcurrencyFactor: report.ConcurrencyFactor(res.TotalMaxPowerKw, installed),
		TotalEnergyKwh:    res.TotalEnergyConsumed,
	}, nil
}
