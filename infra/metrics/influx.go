package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/chargesim/core/metrics"
	"github.com/kilianp07/chargesim/infra/logger"
)

// InfluxConfig holds the connection settings of the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes simulation results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.RunSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one simulation_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("simulation_run").
		AddTag("run_id", ev.RunID).
		AddTag("status", string(ev.Status))
	if ev.Name != "" {
		p = p.AddTag("name", ev.Name)
	}
	p = p.AddField("seed", ev.Seed).
		AddField("horizon_days", ev.HorizonDays).
		AddField("chargers", ev.Chargers).
		AddField("installed_power_kw", round3(ev.InstalledPowerKw)).
		AddField("total_energy_kwh", round3(ev.TotalEnergyKwh)).
		AddField("max_power_kw", round3(ev.MaxPowerKw)).
		AddField("concurrency_factor", round3(ev.ConcurrencyFactor)).
		AddField("arrivals", ev.Sessions.Arrivals).
		AddField("dropped", ev.Sessions.Dropped).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000))
	if ev.Error != "" {
		p = p.AddField("error", ev.Error)
	}
	p = p.SetTime(ev.StartedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDays writes one simulation_day point per simulated day, timestamped
// at midnight UTC of that day counted from the series start date.
func (s *InfluxSink) RecordDays(series coremetrics.DaySeries) error {
	if len(series.Days) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	start := series.Start.UTC().Truncate(24 * time.Hour)
	points := make([]*write.Point, 0, len(series.Days))
	for i, d := range series.Days {
		points = append(points, write.NewPointWithMeasurement("simulation_day").
			AddTag("run_id", series.RunID).
			AddField("max_power_kw", round3(d.MaxPowerKw)).
			AddField("energy_kwh", round3(d.EnergyConsumedKwh)).
			SetTime(start.AddDate(0, 0, i)))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordSweepPoint writes one concurrency_sweep point.
func (s *InfluxSink) RecordSweepPoint(sp coremetrics.SweepPoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("concurrency_sweep").
		AddTag("sweep_id", sp.SweepID).
		AddTag("chargers", strconv.Itoa(sp.Chargers)).
		AddField("theoretical_max_kw", round3(sp.TheoreticalMaxKw)).
		AddField("actual_max_kw", round3(sp.ActualMaxKw)).
		AddField("concurrency_factor", round3(sp.ConcurrencyFactor)).
		AddField("total_energy_kwh", round3(sp.TotalEnergyKwh)).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
