// Package factory holds the generic registry behind pluggable modules such
// as metrics sinks. A module is selected by a type string and receives its
// raw settings, which it decodes with Decode.
//
//	reg := factory.NewRegistry[metrics.RunSink]()
//	_ = reg.Register("influx", func(conf map[string]any) (metrics.RunSink, error) {
//	    var c InfluxConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewInfluxSink(c), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: raw})
package factory
