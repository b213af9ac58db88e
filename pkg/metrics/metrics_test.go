package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.AttemptStarted("NUMERIC")
	m.AttemptStarted("NUMERIC")
	m.AttemptStarted("SCANNED")
	m.AttemptFailed("LOOKUP")
	m.Published("SIMULATED")

	attempts := family(t, reg, "iotc_provision_attempts_total")
	got := map[string]float64{}
	for _, metric := range attempts.GetMetric() {
		got[labelValue(metric, "method")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"NUMERIC": 2, "SCANNED": 1}, got)

	failures := family(t, reg, "iotc_provision_failures_total")
	require.Len(t, failures.GetMetric(), 1)
	assert.Equal(t, "LOOKUP", labelValue(failures.GetMetric()[0], "kind"))

	publishes := family(t, reg, "iotc_provision_publishes_total")
	assert.Equal(t, float64(1), publishes.GetMetric()[0].GetCounter().GetValue())
}

func TestObserveAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveAttempt("NUMERIC", "CONNECTED", 1500*time.Millisecond)

	h := family(t, reg, "iotc_provision_attempt_duration_seconds").GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 1.5, h.GetSampleSum(), 1e-9)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.AttemptStarted("NUMERIC")
	m.AttemptFailed("DECODE")
	m.Published("CONNECTED")
	m.ObserveAttempt("NUMERIC", "FAILED", time.Second)
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.AttemptStarted("SIMULATED")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `iotc_provision_attempts_total{method="SIMULATED"} 1`))
}
