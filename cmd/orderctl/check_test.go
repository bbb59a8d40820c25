package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/health"
)

func TestCheckResult(t *testing.T) {
	tests := []struct {
		name     string
		report   health.Report
		wantErr  string
		wantCode int
	}{
		{
			name: "healthy",
			report: health.Report{Status: health.StatusHealthy, Checks: map[string]health.Check{
				"storage": {Name: "storage", Status: health.StatusHealthy},
			}},
		},
		{
			name: "degraded is still usable",
			report: health.Report{Status: health.StatusDegraded, Checks: map[string]health.Check{
				"storage":    {Name: "storage", Status: health.StatusHealthy},
				"migrations": {Name: "migrations", Status: health.StatusDegraded},
			}},
		},
		{
			name: "unhealthy lists failing checks",
			report: health.Report{Status: health.StatusUnhealthy, Checks: map[string]health.Check{
				"storage":    {Name: "storage", Status: health.StatusUnhealthy},
				"kafka":      {Name: "kafka", Status: health.StatusDegraded},
				"migrations": {Name: "migrations", Status: health.StatusHealthy},
			}},
			wantErr:  "orderctl: unhealthy: kafka, storage",
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkResult(tt.report)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.EqualError(t, err, tt.wantErr)
			var exitErr cli.ExitCoder
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.wantCode, exitErr.ExitCode())
		})
	}
}
