// Package metrics defines the sinks that receive the outcome of simulation
// runs. A sink implements RunSink and may implement the optional DayRecorder
// and SweepRecorder interfaces to receive per-day series and sweep points.
// Sinks are built from configuration through the registry in factory.go and
// combined with NewMultiSink when several are configured.
package metrics
