// Package report derives descriptive statistics from simulation results.
package report

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/chargesim/core/model"
)

// Summary describes one run at a glance.
type Summary struct {
	Days                 int     `json:"days" yaml:"days"`
	ActiveDays           int     `json:"active_days" yaml:"active_days"`
	InstalledPowerKw     float64 `json:"installed_power_kw" yaml:"installed_power_kw"`
	TotalEnergyKwh       float64 `json:"total_energy_kwh" yaml:"total_energy_kwh"`
	MaxPowerKw           float64 `json:"max_power_kw" yaml:"max_power_kw"`
	ConcurrencyFactor    float64 `json:"concurrency_factor" yaml:"concurrency_factor"`
	MeanDailyEnergyKwh   float64 `json:"mean_daily_energy_kwh" yaml:"mean_daily_energy_kwh"`
	StdDevDailyEnergyKwh float64 `json:"stddev_daily_energy_kwh" yaml:"stddev_daily_energy_kwh"`
	P95DailyPeakKw       float64 `json:"p95_daily_peak_kw" yaml:"p95_daily_peak_kw"`
}

// ConcurrencyFactor is the observed peak divided by the installed power.
// It is zero when nothing is installed.
func ConcurrencyFactor(maxPowerKw, installedKw float64) float64 {
	if installedKw <= 0 {
		return 0
	}
	return maxPowerKw / installedKw
}

// Summarize computes the summary of res for a fleet of installedKw.
func Summarize(res model.SimulationResult, installedKw float64) Summary {
	s := Summary{
		Days:              len(res.Results),
		InstalledPowerKw:  installedKw,
		TotalEnergyKwh:    res.TotalEnergyConsumed,
		MaxPowerKw:        res.TotalMaxPowerKw,
		ConcurrencyFactor: ConcurrencyFactor(res.TotalMaxPowerKw, installedKw),
	}
	if s.Days == 0 {
		return s
	}

	energy := make([]float64, s.Days)
	peaks := make([]float64, s.Days)
	for i, d := range res.Results {
		energy[i] = d.EnergyConsumedKwh
		peaks[i] = d.MaxPowerKw
	}
	s.ActiveDays = floats.Count(func(v float64) bool { return v > 0 }, energy)

	if s.Days == 1 {
		s.MeanDailyEnergyKwh = energy[0]
	} else {
		s.MeanDailyEnergyKwh, s.StdDevDailyEnergyKwh = stat.MeanStdDev(energy, nil)
	}

	sort.Float64s(peaks)
	s.P95DailyPeakKw = stat.Quantile(0.95, stat.Empirical, peaks, nil)
	return s
}
