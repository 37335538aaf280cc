package metrics

import "errors"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []RunSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...RunSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordDays forwards the series to sinks implementing DayRecorder.
func (m *MultiSink) RecordDays(series DaySeries) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DayRecorder); ok {
			if err := rec.RecordDays(series); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSweepPoint forwards the point to sinks implementing SweepRecorder.
func (m *MultiSink) RecordSweepPoint(p SweepPoint) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SweepRecorder); ok {
			if err := rec.RecordSweepPoint(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink holding resources and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
