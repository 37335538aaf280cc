package monitoring

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargesim/config"
	coremon "github.com/kilianp07/chargesim/core/monitoring"
)

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitorBadDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitorSendsTaggedEvent(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dsn := fmt.Sprintf("http://public@%s/1", strings.TrimPrefix(srv.URL, "http://"))
	m, err := newSentryMonitor(config.SentryConfig{DSN: dsn, Environment: "test"}, sentry.NewHTTPSyncTransport())
	require.NoError(t, err)

	m.CaptureException(errors.New("invariant broken"), map[string]string{"run_id": "r1"})
	m.CaptureException(nil, nil)
	assert.True(t, m.Flush(0))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "invariant broken")
	assert.Contains(t, bodies[0], `"run_id":"r1"`)
}
