package scenarios

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/chargesim/core/metrics"
	"github.com/kilianp07/chargesim/core/report"
	"github.com/kilianp07/chargesim/core/sim"
	"github.com/kilianp07/chargesim/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	cfg, err := sc.SimulationConfig()
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	days := sc.Days
	if days == 0 {
		days = sim.DefaultHorizonDays
	}
	var tally sim.Tally
	started := time.Now()
	res, err := sim.Simulate(cfg, sim.NewSimulationKey(sc.Seed), sim.WithHorizonDays(days), sim.WithObserver(&tally))

	if sc.Expected.ConfigError != "" {
		var cfgErr *sim.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("scenario %s expected config error on %s, got %v", sc.Name, sc.Expected.ConfigError, err)
		}
		if cfgErr.Field != sc.Expected.ConfigError {
			t.Errorf("scenario %s expected config error on %s, got %s", sc.Name, sc.Expected.ConfigError, cfgErr.Field)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	sum := report.Summarize(res, cfg.InstalledPowerKw())
	if err := sink.RecordRun(coremetrics.RunEvent{
		RunID:             sc.Name,
		Status:            coremetrics.StatusCompleted,
		TotalEnergyKwh:    res.TotalEnergyConsumed,
		MaxPowerKw:        res.TotalMaxPowerKw,
		ConcurrencyFactor: sum.ConcurrencyFactor,
		Sessions:          coremetrics.SessionCounts{Arrivals: tally.Arrivals, Completed: tally.Completed, Dropped: tally.Dropped},
		Duration:          time.Since(started),
	}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if n, err := testutil.GatherAndCount(reg, "chargesim_runs_total"); err != nil || n != 1 {
		t.Errorf("scenario %s: expected one run series, got %d (%v)", sc.Name, n, err)
	}

	exp := sc.Expected
	if len(res.Results) != days {
		t.Errorf("scenario %s expected %d days, got %d", sc.Name, days, len(res.Results))
	}
	if len(exp.MaxPowerIn) > 0 {
		for i, d := range res.Results {
			if !contains(exp.MaxPowerIn, d.MaxPowerKw) {
				t.Errorf("scenario %s day %d: max power %v not in %v", sc.Name, i, d.MaxPowerKw, exp.MaxPowerIn)
				break
			}
		}
	}
	if sum.ActiveDays < exp.MinActiveDays {
		t.Errorf("scenario %s expected at least %d active days, got %d", sc.Name, exp.MinActiveDays, sum.ActiveDays)
	}
	if exp.MaxActiveDays != nil && sum.ActiveDays > *exp.MaxActiveDays {
		t.Errorf("scenario %s expected at most %d active days, got %d", sc.Name, *exp.MaxActiveDays, sum.ActiveDays)
	}
	if exp.MaxConcurrencyFactor > 0 && sum.ConcurrencyFactor > exp.MaxConcurrencyFactor {
		t.Errorf("scenario %s concurrency factor %v above %v", sc.Name, sum.ConcurrencyFactor, exp.MaxConcurrencyFactor)
	}
	if exp.TotalEnergyKwh != nil && res.TotalEnergyConsumed != *exp.TotalEnergyKwh {
		t.Errorf("scenario %s expected %v kWh, got %v", sc.Name, *exp.TotalEnergyKwh, res.TotalEnergyConsumed)
	}
	if exp.Dropped != nil && tally.Dropped != *exp.Dropped {
		t.Errorf("scenario %s expected %d dropped arrivals, got %d", sc.Name, *exp.Dropped, tally.Dropped)
	}
}

func contains(values []float64, v float64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
