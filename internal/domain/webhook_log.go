package domain

import "time"

// WebhookLog is one inbound delivery attempt. A row is written before any
// normalization runs and finished exactly once with the final outcome, so a
// crash mid-processing still leaves the raw payload behind.
type WebhookLog struct {
	ID         string
	Payload    string
	Method     string
	StatusCode int
	Processed  bool
	Message    string
	Timestamp  time.Time
}
