package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/chargesim/core/model"
	"github.com/kilianp07/chargesim/core/sweep"
)

func sampleReport() RunReport {
	return RunReport{
		RunID:     "run-1",
		Status:    "COMPLETED",
		Seed:      3,
		StartDate: "2025-01-01",
		Result: model.SimulationResult{
			Results: []model.DayResult{
				{MaxPowerKw: 11, EnergyConsumedKwh: 12.6},
				{MaxPowerKw: 0, EnergyConsumedKwh: 0},
			},
			TotalEnergyConsumed: 12.6,
			TotalMaxPowerKw:     11,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "CSV": FormatCSV, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteRunCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, FormatCSV, sampleReport()))
	want := "day,max_power_kw,energy_consumed_kwh\n0,11,12.6\n1,0,0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRunJSONKeepsResultShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, FormatJSON, sampleReport()))

	var doc struct {
		Status string `json:"status"`
		Result struct {
			Results []struct {
				MaxPowerKw        float64 `json:"maxPowerKw"`
				EnergyConsumedKwh float64 `json:"energyConsumedKwh"`
			} `json:"results"`
			TotalEnergyConsumed float64 `json:"totalEnergyConsumed"`
			TotalMaxPowerKw     float64 `json:"totalMaxPowerKw"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "COMPLETED", doc.Status)
	assert.Len(t, doc.Result.Results, 2)
	assert.Equal(t, 12.6, doc.Result.TotalEnergyConsumed)
	assert.Equal(t, 11.0, doc.Result.TotalMaxPowerKw)
}

func TestWriteRunYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, FormatYAML, sampleReport()))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Contains(t, buf.String(), "totalMaxPowerKw: 11")
}

func TestWriteSweepCSV(t *testing.T) {
	var buf bytes.Buffer
	points := []sweep.Point{
		{Chargers: 1, TheoreticalMaxKw: 11, ActualMaxKw: 11, ConcurrencyFactor: 1, TotalEnergyKwh: 900},
		{Chargers: 2, TheoreticalMaxKw: 22, ActualMaxKw: 11, ConcurrencyFactor: 0.5, TotalEnergyKwh: 950},
	}
	require.NoError(t, WriteSweep(&buf, FormatCSV, points))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "chargers,theoretical_max_kw,actual_max_kw,concurrency_factor,total_energy_kwh", lines[0])
	assert.Equal(t, "2,22,11,0.5,950", lines[2])
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, WriteRun(&bytes.Buffer{}, Format("xml"), RunReport{}))
	assert.Error(t, WriteSweep(&bytes.Buffer{}, Format("xml"), nil))
}
