package models

import "time"

const (
	// AnomalyStressShare is the share of last-hour messages flagged high
	// stress above which the monitor reports an anomaly.
	AnomalyStressShare = 0.5
	// AnomalyRateSpike is the last-hour message count above which the
	// monitor reports an anomaly regardless of stress share.
	AnomalyRateSpike = 5000
)

type MonitorStatus struct {
	Database           string    `json:"database"`
	Redis              string    `json:"redis"`
	MessagesTotal      int64     `json:"messages_total"`
	MessagesLastHour   int64     `json:"messages_last_hour"`
	HighStressLastHour int64     `json:"high_stress_last_hour"`
	Anomaly            bool      `json:"anomaly"`
	CheckedAt          time.Time `json:"checked_at"`
}

func (status *MonitorStatus) CalculateAnomaly() {
	if status.Database != "ok" || status.Redis != "ok" {
		status.Anomaly = true
		return
	}
	if status.MessagesLastHour > AnomalyRateSpike {
		status.Anomaly = true
		return
	}
	if status.MessagesLastHour > 0 {
		share := float64(status.HighStressLastHour) / float64(status.MessagesLastHour)
		if share > AnomalyStressShare {
			status.Anomaly = true
			return
		}
	}
	status.Anomaly = false
}
