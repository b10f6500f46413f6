package models

import "time"

// MemorizationBatch is the set of words recorded by one memorize call.
// Words are unique within a batch and never repeat across a user's batches.
type MemorizationBatch struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Words     []string  `json:"words"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
