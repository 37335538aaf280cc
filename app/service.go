package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/chargesim/config"
	coremetrics "github.com/kilianp07/chargesim/core/metrics"
	"github.com/kilianp07/chargesim/core/monitoring"
	"github.com/kilianp07/chargesim/core/model"
	"github.com/kilianp07/chargesim/core/report"
	"github.com/kilianp07/chargesim/core/sim"
	"github.com/kilianp07/chargesim/core/sweep"
	"github.com/kilianp07/chargesim/infra/logger"
	_ "github.com/kilianp07/chargesim/infra/metrics" // registers nop, prometheus and influx sinks
	_ "github.com/kilianp07/chargesim/infra/mqtt"    // registers the mqtt sink
	"github.com/kilianp07/chargesim/internal/eventbus"
	"github.com/kilianp07/chargesim/pkg/export"
)

// Service runs simulations described by the configuration and reports them
// to the configured metrics sinks.
type Service struct {
	cfg   *config.Config
	sink  coremetrics.RunSink
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	return NewWithSink(cfg, sink), nil
}

// NewWithSink creates a Service reporting to sink.
func NewWithSink(cfg *config.Config, sink coremetrics.RunSink) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Service{
		cfg:   cfg,
		sink:  sink,
		log:   logger.New("service"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Simulate runs the configured scenario once. The returned report carries
// status COMPLETED, or FAILED together with a non-nil error.
func (s *Service) Simulate(ctx context.Context) (export.RunReport, error) {
	started := s.now()
	rep := export.RunReport{
		RunID:     s.newID(),
		Name:      s.cfg.Run.Name,
		Seed:      s.cfg.Run.Seed,
		StartDate: s.cfg.Run.StartDate,
	}
	ev := coremetrics.RunEvent{
		RunID:       rep.RunID,
		Name:        rep.Name,
		Seed:        rep.Seed,
		HorizonDays: s.cfg.Run.HorizonDays,
		StartedAt:   started,
	}

	var tally sim.Tally
	simCfg, res, err := s.run(ctx, &tally)
	ev.Duration = s.now().Sub(started)
	ev.Chargers = len(simCfg.Chargers)
	ev.InstalledPowerKw = simCfg.InstalledPowerKw()
	if err != nil {
		rep.Status = string(coremetrics.StatusFailed)
		ev.Status = coremetrics.StatusFailed
		ev.Error = err.Error()
		s.log.Errorf("run %s failed: %v", rep.RunID, err)
		s.report(err, map[string]string{"run_id": rep.RunID, "op": "simulate"})
		s.record(ev, nil)
		return rep, err
	}

	rep.Status = string(coremetrics.StatusCompleted)
	rep.Result = res
	rep.Summary = report.Summarize(res, ev.InstalledPowerKw)

	ev.Status = coremetrics.StatusCompleted
	ev.TotalEnergyKwh = res.TotalEnergyConsumed
	ev.MaxPowerKw = res.TotalMaxPowerKw
	ev.ConcurrencyFactor = rep.Summary.ConcurrencyFactor
	ev.Sessions = coremetrics.SessionCounts{
		Arrivals:  tally.Arrivals,
		Charged:   tally.Charging,
		Completed: tally.Completed,
		Dropped:   tally.Dropped,
	}
	s.log.Infof("run %s completed: %.1f kWh, peak %.1f kW, %d/%d arrivals dropped",
		rep.RunID, res.TotalEnergyConsumed, res.TotalMaxPowerKw, tally.Dropped, tally.Arrivals)
	s.record(ev, res.Results)
	return rep, nil
}

func (s *Service) run(ctx context.Context, obs sim.Observer) (model.SimulationConfig, model.SimulationResult, error) {
	simCfg, err := s.cfg.Scenario.SimulationConfig()
	if err != nil {
		return simCfg, model.SimulationResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return simCfg, model.SimulationResult{}, err
	}
	engine, err := sim.New(simCfg,
		sim.WithHorizonDays(s.cfg.Run.HorizonDays),
		sim.WithLogger(logger.New("engine")),
		sim.WithObserver(obs),
	)
	if err != nil {
		return simCfg, model.SimulationResult{}, err
	}
	res, err := engine.Run(sim.NewSimulationKey(s.cfg.Run.Seed).NewRand())
	return simCfg, res, err
}

func (s *Service) record(ev coremetrics.RunEvent, days []model.DayResult) {
	if err := s.sink.RecordRun(ev); err != nil {
		s.log.Warnf("record run %s: %v", ev.RunID, err)
	}
	rec, ok := s.sink.(coremetrics.DayRecorder)
	if !ok || len(days) == 0 {
		return
	}
	start, err := s.cfg.Run.Start()
	if err != nil {
		start = ev.StartedAt
	}
	if err := rec.RecordDays(coremetrics.DaySeries{RunID: ev.RunID, Start: start, Days: days}); err != nil {
		s.log.Warnf("record days of run %s: %v", ev.RunID, err)
	}
}

// Sweep runs the scenario for 1..MaxChargers identical chargers. Progress is
// published on bus when it is not nil.
func (s *Service) Sweep(ctx context.Context, bus *eventbus.Bus[sweep.Progress]) ([]sweep.Point, error) {
	simCfg, err := s.cfg.Scenario.SimulationConfig()
	if err != nil {
		return nil, err
	}
	sweepID := s.newID()
	points, err := sweep.Run(ctx, simCfg, sweep.Options{
		MaxChargers: s.cfg.Sweep.MaxChargers,
		PowerKw:     s.cfg.Sweep.PowerKw,
		HorizonDays: s.cfg.Run.HorizonDays,
		Parallel:    s.cfg.Sweep.Parallel,
		Key:         sim.NewSimulationKey(s.cfg.Run.Seed),
		Bus:         bus,
		Logger:      logger.New("sweep"),
	})
	if err != nil {
		s.log.Errorf("sweep %s failed: %v", sweepID, err)
		s.report(err, map[string]string{"sweep_id": sweepID, "op": "sweep"})
		return nil, err
	}
	if rec, ok := s.sink.(coremetrics.SweepRecorder); ok {
		for _, p := range points {
			if err := rec.RecordSweepPoint(coremetrics.SweepPoint{
				SweepID:           sweepID,
				Chargers:          p.Chargers,
				TheoreticalMaxKw:  p.TheoreticalMaxKw,
				ActualMaxKw:       p.ActualMaxKw,
				ConcurrencyFactor: p.ConcurrencyFactor,
				TotalEnergyKwh:    p.TotalEnergyKwh,
			}); err != nil {
				s.log.Warnf("record sweep point %d: %v", p.Chargers, err)
			}
		}
	}
	s.log.Infof("sweep %s completed: %d fleet sizes", sweepID, len(points))
	return points, nil
}

// report forwards unexpected failures to the error monitor. Cancellation is
// not a failure.
func (s *Service) report(err error, tags map[string]string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	tags["error_kind"] = errorKind(err)
	monitoring.CaptureException(err, tags)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, sim.ErrConfig):
		return "config"
	case errors.Is(err, sim.ErrInvariant):
		return "invariant"
	default:
		return "other"
	}
}

// Close releases resources held by the sinks.
func (s *Service) Close() error {
	if c, ok := s.sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}
