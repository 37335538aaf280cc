package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/chargesim/core/sim"
)

const dateLayout = "2006-01-02"

// RunConfig controls a single simulation run.
type RunConfig struct {
	// Name is an optional label attached to sinks and exports.
	Name        string `json:"name"`
	Seed        int64  `json:"seed"`
	HorizonDays int    `json:"horizon_days"`
	// StartDate anchors day 0 for time series sinks, formatted YYYY-MM-DD.
	StartDate string `json:"start_date"`
}

// SetDefaults applies sane defaults.
func (c *RunConfig) SetDefaults() {
	if c.HorizonDays == 0 {
		c.HorizonDays = sim.DefaultHorizonDays
	}
	if c.StartDate == "" {
		c.StartDate = fmt.Sprintf("%d-01-01", time.Now().UTC().Year())
	}
}

// Validate checks mandatory fields.
func (c RunConfig) Validate() error {
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive, got %d", c.HorizonDays)
	}
	if _, err := c.Start(); err != nil {
		return err
	}
	return nil
}

// Start parses StartDate as a UTC midnight.
func (c RunConfig) Start() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("start_date %q: %w", c.StartDate, err)
	}
	return t, nil
}

// SweepConfig controls the concurrency factor sweep.
type SweepConfig struct {
	MaxChargers int     `json:"max_chargers"`
	PowerKw     float64 `json:"power_kw"`
	// Parallel bounds concurrent runs; zero means one per CPU.
	Parallel int `json:"parallel"`
}

// SetDefaults applies sane defaults.
func (c *SweepConfig) SetDefaults() {
	if c.MaxChargers == 0 {
		c.MaxChargers = 30
	}
	if c.PowerKw == 0 {
		c.PowerKw = 11
	}
}

// Validate checks mandatory fields.
func (c SweepConfig) Validate() error {
	if c.MaxChargers <= 0 {
		return fmt.Errorf("max_chargers must be positive, got %d", c.MaxChargers)
	}
	if c.PowerKw <= 0 {
		return fmt.Errorf("power_kw must be positive, got %g", c.PowerKw)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative, got %d", c.Parallel)
	}
	return nil
}
