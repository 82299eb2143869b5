package services

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostwatch/internal/models"
)

func TestTelemetryObservesCycles(t *testing.T) {
	var failures uint64 = 3
	policy := NewThresholdPolicy(models.DefaultThresholds())
	tel := NewTelemetry(func() uint64 { return failures }, policy)

	sample := sampleOf(95, 40, 91)
	tel.OnCycle(sample, Evaluate(sample, policy.Get()))
	tel.OnCycleError(errors.New("boom"))

	assert.Equal(t, 95.0, testutil.ToFloat64(tel.cpu))
	assert.Equal(t, 40.0, testutil.ToFloat64(tel.memory))
	assert.Equal(t, 91.0, testutil.ToFloat64(tel.disk))
	assert.Equal(t, 2.0, testutil.ToFloat64(tel.activeAlerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.cycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.cycleFailures))
	assert.Equal(t, 80.0, testutil.ToFloat64(tel.thresholds.WithLabelValues("cpu")))

	tel.ObserveThresholds(models.ThresholdSet{CPU: 60, Memory: 70, Disk: 75})
	assert.Equal(t, 60.0, testutil.ToFloat64(tel.thresholds.WithLabelValues("cpu")))
	assert.Equal(t, 75.0, testutil.ToFloat64(tel.thresholds.WithLabelValues("disk")))
}

func TestTelemetryHandler(t *testing.T) {
	tel := NewTelemetry(func() uint64 { return 7 }, NewThresholdPolicy(models.DefaultThresholds()))
	tel.OnCycle(sampleOf(12, 34, 56), nil)

	srv := httptest.NewServer(tel.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "hostwatch_cpu_percent 12")
	assert.Contains(t, text, "hostwatch_audit_write_failures_total 7")
	assert.Contains(t, text, `hostwatch_threshold_percent{metric="memory"} 85`)
	assert.Contains(t, text, "hostwatch_cycles_total 1")
}

func TestTelemetryRegistryCollectsEveryMetric(t *testing.T) {
	tel := NewTelemetry(func() uint64 { return 0 }, NewThresholdPolicy(models.DefaultThresholds()))

	count, err := testutil.GatherAndCount(tel.Registry(), "hostwatch_threshold_percent")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(tel.Registry(), "hostwatch_audit_write_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
