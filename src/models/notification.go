package models

import (
	"strconv"
	"time"
)

type CheckInNotification struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	FirstName      string    `json:"first_name"`
	StressLevel    int       `json:"stress_level"`
	ReceivedAt     time.Time `json:"received_at"`
	Seen           bool      `json:"seen"`
}

func (notification CheckInNotification) FirebaseToMap() map[string]string {
	return map[string]string{
		"type":            "check-in",
		"notification_id": notification.NotificationID,
		"user_id":         notification.UserID,
		"first_name":      notification.FirstName,
		"stress_level":    strconv.Itoa(notification.StressLevel),
		"received_at":     notification.ReceivedAt.Format(time.RFC3339),
		"seen":            strconv.FormatBool(notification.Seen),
	}
}
