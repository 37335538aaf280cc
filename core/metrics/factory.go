package metrics

import "github.com/kilianp07/chargesim/core/factory"

var sinkRegistry = factory.NewRegistry[RunSink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[RunSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink creates a RunSink from the provided configuration. No
// configuration yields a NopSink; several yield a MultiSink.
func NewSink(cfgs []factory.ModuleConfig) (RunSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]RunSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
