package config

import (
	"fmt"

	"github.com/kilianp07/chargesim/pkg/export"
)

// OutputConfig selects where results are written.
type OutputConfig struct {
	// Format is one of json, csv or yaml.
	Format string `json:"format"`
	// Path is the output file; empty writes to stdout.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = string(export.FormatJSON)
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}
