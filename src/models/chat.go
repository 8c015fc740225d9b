package models

import "time"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatMessage struct {
	ID            string    `json:"message_id"`
	UserID        string    `json:"user_id"`
	Body          string    `json:"body"`
	Emotion       string    `json:"emotion"`
	Intensity     float64   `json:"intensity"`
	StressLevel   int       `json:"stress_level"`
	SupportNeeded bool      `json:"support_needed"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChatHistory struct {
	UserID   string        `json:"user_id"`
	Messages []ChatMessage `json:"messages"`
}
