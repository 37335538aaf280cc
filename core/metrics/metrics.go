package metrics

import (
	"time"

	"github.com/kilianp07/chargesim/core/model"
)

// RunStatus is the final status of a simulation run.
type RunStatus string

const (
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
)

// SessionCounts summarizes session outcomes of one run.
type SessionCounts struct {
	Arrivals  int `json:"arrivals"`
	Charged   int `json:"charged"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
}

// RunEvent describes one finished simulation run, successful or not.
type RunEvent struct {
	RunID             string        `json:"run_id"`
	Name              string        `json:"name,omitempty"`
	Status            RunStatus     `json:"status"`
	Seed              int64         `json:"seed"`
	HorizonDays       int           `json:"horizon_days"`
	Chargers          int           `json:"chargers"`
	InstalledPowerKw  float64       `json:"installed_power_kw"`
	TotalEnergyKwh    float64       `json:"total_energy_kwh"`
	MaxPowerKw        float64       `json:"max_power_kw"`
	ConcurrencyFactor float64       `json:"concurrency_factor"`
	Sessions          SessionCounts `json:"sessions"`
	Error             string        `json:"error,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration_ns"`
}

// RunSink records simulation runs.
type RunSink interface {
	RecordRun(ev RunEvent) error
}

// DaySeries is the per-day output of a run anchored at a calendar start date.
type DaySeries struct {
	RunID string
	Start time.Time
	Days  []model.DayResult
}

// DayRecorder is implemented by sinks able to store per-day results.
type DayRecorder interface {
	RecordDays(series DaySeries) error
}

// SweepPoint is the outcome of one fleet size in a concurrency sweep.
type SweepPoint struct {
	SweepID           string  `json:"sweep_id"`
	Chargers          int     `json:"chargers"`
	TheoreticalMaxKw  float64 `json:"theoretical_max_kw"`
	ActualMaxKw       float64 `json:"actual_max_kw"`
	ConcurrencyFactor float64 `json:"concurrency_factor"`
	TotalEnergyKwh    float64 `json:"total_energy_kwh"`
}

// SweepRecorder is implemented by sinks able to store sweep points.
type SweepRecorder interface {
	RecordSweepPoint(p SweepPoint) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error          { return nil }
func (NopSink) RecordDays(DaySeries) error        { return nil }
func (NopSink) RecordSweepPoint(SweepPoint) error { return nil }
