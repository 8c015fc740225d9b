package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAPIKeyIsDeterministic(t *testing.T) {
	first := HashAPIKey("qmoi-secret-value")
	second := HashAPIKey("qmoi-secret-value")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestHashAPIKeyDiffersPerSecret(t *testing.T) {
	first := HashAPIKey("qmoi-secret-one")
	second := HashAPIKey("qmoi-secret-two")

	require.NotEqual(t, first, second)
}

func TestCalculateAnomaly(t *testing.T) {
	tests := []struct {
		name    string
		status  MonitorStatus
		anomaly bool
	}{
		{
			name:    "healthy quiet system",
			status:  MonitorStatus{Database: "ok", Redis: "ok", MessagesLastHour: 40, HighStressLastHour: 5},
			anomaly: false,
		},
		{
			name:    "database down",
			status:  MonitorStatus{Database: "unreachable", Redis: "ok"},
			anomaly: true,
		},
		{
			name:    "redis down",
			status:  MonitorStatus{Database: "ok", Redis: "unreachable"},
			anomaly: true,
		},
		{
			name:    "message rate spike",
			status:  MonitorStatus{Database: "ok", Redis: "ok", MessagesLastHour: AnomalyRateSpike + 1},
			anomaly: true,
		},
		{
			name:    "rate exactly at spike threshold",
			status:  MonitorStatus{Database: "ok", Redis: "ok", MessagesLastHour: AnomalyRateSpike},
			anomaly: false,
		},
		{
			name:    "majority of messages high stress",
			status:  MonitorStatus{Database: "ok", Redis: "ok", MessagesLastHour: 10, HighStressLastHour: 6},
			anomaly: true,
		},
		{
			name:    "stress share exactly at threshold",
			status:  MonitorStatus{Database: "ok", Redis: "ok", MessagesLastHour: 10, HighStressLastHour: 5},
			anomaly: false,
		},
		{
			name:    "no traffic in the last hour",
			status:  MonitorStatus{Database: "ok", Redis: "ok", MessagesLastHour: 0, HighStressLastHour: 0},
			anomaly: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			status.CalculateAnomaly()
			assert.Equal(t, tt.anomaly, status.Anomaly)
		})
	}
}
