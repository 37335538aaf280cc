package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kilianp07/chargesim/core/factory"
	coremetrics "github.com/kilianp07/chargesim/core/metrics"
)

type publisher interface {
	Publish(topic string, payload []byte) error
	Disconnect()
}

// RunPublisher publishes run summaries and sweep points as JSON documents.
// Runs go to <prefix>/runs/<run_id>, sweep points to
// <prefix>/sweeps/<sweep_id>/<chargers>.
type RunPublisher struct {
	client publisher
	prefix string
}

// NewRunPublisher connects to the broker described by cfg.
func NewRunPublisher(cfg Config) (*RunPublisher, error) {
	cli, err := NewPahoClient(cfg)
	if err != nil {
		return nil, err
	}
	return newRunPublisher(cli, cfg.TopicPrefix), nil
}

func newRunPublisher(cli publisher, prefix string) *RunPublisher {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &RunPublisher{client: cli, prefix: prefix}
}

// RecordRun publishes the run summary.
func (p *RunPublisher) RecordRun(ev coremetrics.RunEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(fmt.Sprintf("%s/runs/%s", p.prefix, ev.RunID), payload)
}

// RecordSweepPoint publishes one sweep point.
func (p *RunPublisher) RecordSweepPoint(sp coremetrics.SweepPoint) error {
	payload, err := json.Marshal(sp)
	if err != nil {
		return err
	}
	return p.client.Publish(fmt.Sprintf("%s/sweeps/%s/%d", p.prefix, sp.SweepID, sp.Chargers), payload)
}

// Close disconnects from the broker.
func (p *RunPublisher) Close() error {
	p.client.Disconnect()
	return nil
}

func init() {
	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.RunSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRunPublisher(c)
	})
}
