package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/chargesim/core/metrics"
)

// PromSink exposes simulation outcomes as Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	sessions  *prometheus.CounterVec
	energy    prometheus.Gauge
	peak      prometheus.Gauge
	factor    prometheus.Gauge
	duration  prometheus.Histogram
	dailyPeak prometheus.Histogram
	sweep     *prometheus.GaugeVec
}

// NewPromSink registers simulation metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var err error
	s := &PromSink{}
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chargesim_runs_total",
		Help: "Total number of simulation runs by final status",
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if s.sessions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chargesim_sessions_total",
		Help: "Charging sessions by outcome across all runs",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.energy, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chargesim_run_energy_kwh",
		Help: "Total energy delivered by the last completed run",
	})); err != nil {
		return nil, err
	}
	if s.peak, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chargesim_run_max_power_kw",
		Help: "Peak site power of the last completed run",
	})); err != nil {
		return nil, err
	}
	if s.factor, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chargesim_run_concurrency_factor",
		Help: "Peak power divided by installed power for the last completed run",
	})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chargesim_run_duration_seconds",
		Help:    "Wall clock duration of simulation runs",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.dailyPeak, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chargesim_daily_peak_power_kw",
		Help:    "Distribution of simulated daily peak power",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})); err != nil {
		return nil, err
	}
	if s.sweep, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chargesim_sweep_concurrency_factor",
		Help: "Concurrency factor per fleet size of the last sweep",
	}, []string{"chargers"})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// RecordRun counts the run and, when it completed, updates the run gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(string(ev.Status)).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	if ev.Status != coremetrics.StatusCompleted {
		return nil
	}
	s.energy.Set(ev.TotalEnergyKwh)
	s.peak.Set(ev.MaxPowerKw)
	s.factor.Set(ev.ConcurrencyFactor)
	s.sessions.WithLabelValues("completed").Add(float64(ev.Sessions.Completed))
	s.sessions.WithLabelValues("dropped").Add(float64(ev.Sessions.Dropped))
	return nil
}

// RecordDays observes every daily peak in the histogram.
func (s *PromSink) RecordDays(series coremetrics.DaySeries) error {
	for _, d := range series.Days {
		s.dailyPeak.Observe(d.MaxPowerKw)
	}
	return nil
}

// RecordSweepPoint sets the concurrency factor gauge for the point's fleet size.
func (s *PromSink) RecordSweepPoint(p coremetrics.SweepPoint) error {
	s.sweep.WithLabelValues(strconv.Itoa(p.Chargers)).Set(p.ConcurrencyFactor)
	return nil
}
