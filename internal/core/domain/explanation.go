package domain

import "time"

// Explanation is a persisted LLM explanation of a code snippet.
type Explanation struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
}
