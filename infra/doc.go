// Package infra groups the adapters that connect the simulator to the
// outside world: zerolog logging, Prometheus and InfluxDB sinks, the MQTT
// run publisher and Sentry error monitoring. They implement interfaces
// declared under core and are never imported by the engine itself.
package infra
