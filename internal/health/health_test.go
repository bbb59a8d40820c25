package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestRegistry_Healthy(t *testing.T) {
	registry := NewRegistry("v1.0.0")
	registry.Register("storage", NewSimpleChecker("storage", ok))

	report := registry.Run(context.Background())

	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "v1.0.0", report.Version)
	assert.True(t, report.Healthy())
	require.Len(t, report.Checks, 1)
	assert.Equal(t, StatusHealthy, report.Checks["storage"].Status)
}

func TestRegistry_Unhealthy(t *testing.T) {
	registry := NewRegistry("v1.0.0")
	registry.Register("storage", NewSimpleChecker("storage", func(context.Context) error {
		return errors.New("connection refused")
	}))
	registry.Register("kafka", NewOptionalChecker("kafka", func(context.Context) error {
		return errors.New("broker down")
	}))

	report := registry.Run(context.Background())

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.False(t, report.Healthy())
	assert.Equal(t, "connection refused", report.Checks["storage"].Message)
	assert.Equal(t, StatusDegraded, report.Checks["kafka"].Status)
	assert.Equal(t, []string{"kafka", "storage"}, report.Failing())
}

func TestRegistry_Degraded(t *testing.T) {
	registry := NewRegistry("v1.0.0")
	registry.Register("storage", NewSimpleChecker("storage", ok))
	registry.Register("migrations", NewOptionalChecker("migrations", func(context.Context) error {
		return errors.New("1 pending migration")
	}))

	report := registry.Run(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.True(t, report.Healthy())
	assert.Equal(t, []string{"migrations", "storage"}, report.Names())
	assert.Equal(t, []string{"migrations"}, report.Failing())
}

func TestRegistry_NoCheckers(t *testing.T) {
	report := NewRegistry("").Run(context.Background())

	assert.Equal(t, StatusHealthy, report.Status)
	assert.Empty(t, report.Checks)
	assert.Empty(t, report.Failing())
}

func TestSimpleChecker_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	var seen any
	check := NewSimpleChecker("ctx", func(ctx context.Context) error {
		seen = ctx.Value(key{})
		return nil
	}).Check(ctx)

	assert.Equal(t, "value", seen)
	assert.Equal(t, "ctx", check.Name)
	assert.GreaterOrEqual(t, check.DurationMs, int64(0))
}

func TestReport_WriteJSON(t *testing.T) {
	registry := NewRegistry("v1.0.0")
	registry.Register("storage", NewSimpleChecker("storage", ok))

	var buf bytes.Buffer
	require.NoError(t, registry.Run(context.Background()).WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, StatusHealthy, decoded.Status)
	assert.Equal(t, "storage", decoded.Checks["storage"].Name)
}
