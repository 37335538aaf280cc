package mqtt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/chargesim/core/metrics"
)

type fakePublisher struct {
	topics       []string
	payloads     [][]byte
	disconnected bool
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) Disconnect() { f.disconnected = true }

func TestRunPublisherTopics(t *testing.T) {
	fp := &fakePublisher{}
	p := newRunPublisher(fp, "site/a/")

	require.NoError(t, p.RecordRun(coremetrics.RunEvent{RunID: "r1", Status: coremetrics.StatusCompleted, TotalEnergyKwh: 42}))
	require.NoError(t, p.RecordSweepPoint(coremetrics.SweepPoint{SweepID: "s1", Chargers: 3, ConcurrencyFactor: 0.5}))
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"site/a/runs/r1", "site/a/sweeps/s1/3"}, fp.topics)
	assert.True(t, fp.disconnected)

	var ev coremetrics.RunEvent
	require.NoError(t, json.Unmarshal(fp.payloads[0], &ev))
	assert.Equal(t, coremetrics.StatusCompleted, ev.Status)
	assert.Equal(t, 42.0, ev.TotalEnergyKwh)
}

func TestRunPublisherDefaultPrefix(t *testing.T) {
	fp := &fakePublisher{}
	p := newRunPublisher(fp, "")
	require.NoError(t, p.RecordRun(coremetrics.RunEvent{RunID: "x"}))
	assert.Equal(t, []string{"chargesim/runs/x"}, fp.topics)
}

func TestNewRunPublisherThroughPaho(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewRunPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", Retain: true})
	require.NoError(t, err)
	require.NoError(t, p.RecordRun(coremetrics.RunEvent{RunID: "r9"}))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "chargesim/runs/r9", mc.published[0].topic)
	assert.True(t, mc.published[0].retained)
}
