package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/chargesim/core/model"
	"github.com/kilianp07/chargesim/core/report"
	"github.com/kilianp07/chargesim/core/sweep"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// RunReport is the exported document of one simulation run.
type RunReport struct {
	RunID     string                 `json:"run_id" yaml:"run_id"`
	Name      string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Status    string                 `json:"status" yaml:"status"`
	Seed      int64                  `json:"seed" yaml:"seed"`
	StartDate string                 `json:"start_date" yaml:"start_date"`
	Summary   report.Summary         `json:"summary" yaml:"summary"`
	Result    model.SimulationResult `json:"result" yaml:"result"`
}

// WriteRun writes r in the given format. CSV carries the daily rows only.
func WriteRun(w io.Writer, f Format, r RunReport) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatCSV:
		return WriteDaysCSV(w, r.Result.Results)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// WriteSweep writes sweep points in the given format.
func WriteSweep(w io.Writer, f Format, points []sweep.Point) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, points)
	case FormatYAML:
		return WriteYAML(w, points)
	case FormatCSV:
		return WriteSweepCSV(w, points)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteDaysCSV writes one row per simulated day.
func WriteDaysCSV(w io.Writer, days []model.DayResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "max_power_kw", "energy_consumed_kwh"}); err != nil {
		return err
	}
	for i, d := range days {
		rec := []string{
			strconv.Itoa(i),
			formatFloat(d.MaxPowerKw),
			formatFloat(d.EnergyConsumedKwh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepCSV writes one row per fleet size.
func WriteSweepCSV(w io.Writer, points []sweep.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"chargers", "theoretical_max_kw", "actual_max_kw", "concurrency_factor", "total_energy_kwh"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			strconv.Itoa(p.Chargers),
			formatFloat(p.TheoreticalMaxKw),
			formatFloat(p.ActualMaxKw),
			formatFloat(p.ConcurrencyFactor),
			formatFloat(p.TotalEnergyKwh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
