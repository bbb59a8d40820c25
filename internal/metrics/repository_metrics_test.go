package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric family %q not found", name)
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

func TestNewRepositoryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.operations)
	assert.NotNil(t, m.duration)
	assert.NotNil(t, m.inFlight)
	assert.NotNil(t, m.eventsPublished)
	assert.NotNil(t, m.publishFailures)
}

func TestNewRepositoryMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewRepositoryMetrics(reg)
	second := NewRepositoryMetrics(reg)

	first.RecordEventPublished()
	second.RecordEventPublished()

	family := findFamily(t, reg, "orderstore_order_events_published_total")
	require.Len(t, family.GetMetric(), 1)
	assert.Equal(t, 2.0, family.GetMetric()[0].GetCounter().GetValue())
}

func TestStartOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	done := m.StartOperation("order", "create")

	gauge := &dto.Metric{}
	require.NoError(t, m.inFlight.Write(gauge))
	assert.Equal(t, 1.0, gauge.GetGauge().GetValue())

	done(ResultOK)
	m.StartOperation("order", "find")(ResultNotFound)

	require.NoError(t, m.inFlight.Write(gauge))
	assert.Equal(t, 0.0, gauge.GetGauge().GetValue())

	family := findFamily(t, reg, "orderstore_repository_operations_total")
	require.Len(t, family.GetMetric(), 2)
	results := map[string]string{}
	for _, metric := range family.GetMetric() {
		assert.Equal(t, "order", labelValue(metric, "entity"))
		assert.Equal(t, 1.0, metric.GetCounter().GetValue())
		results[labelValue(metric, "operation")] = labelValue(metric, "result")
	}
	assert.Equal(t, map[string]string{"create": ResultOK, "find": ResultNotFound}, results)

	histogram := findFamily(t, reg, "orderstore_repository_operation_duration_seconds")
	require.Len(t, histogram.GetMetric(), 2)
	for _, metric := range histogram.GetMetric() {
		assert.EqualValues(t, 1, metric.GetHistogram().GetSampleCount())
	}
}

func TestRecordPublishFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	m.RecordPublishFailure()
	m.RecordPublishFailure()

	metric := &dto.Metric{}
	require.NoError(t, m.publishFailures.Write(metric))
	assert.Equal(t, 2.0, metric.GetCounter().GetValue())
}

func TestNilRepositoryMetrics(t *testing.T) {
	var m *RepositoryMetrics

	assert.NotPanics(t, func() {
		m.StartOperation("order", "create")(ResultOK)
		m.RecordEventPublished()
		m.RecordPublishFailure()
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)
	m.StartOperation("customer", "create")(ResultOK)

	path := filepath.Join(t.TempDir(), "orderstore.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `orderstore_repository_operations_total{entity="customer",operation="create",result="ok"} 1`))
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.NoError(t, WriteTextfile("", prometheus.NewRegistry()))
}
