package models

import "time"

type Search struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Body       string    `json:"body"`
	Emotion    string    `json:"emotion"`
	ResultType string    `json:"result_type"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}
