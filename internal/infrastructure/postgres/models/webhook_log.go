package models

import "time"

type WebhookLogModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	Payload    string `gorm:"type:text"`
	Method     string
	StatusCode int
	Processed  bool
	Message    string
	Timestamp  time.Time `gorm:"index:idx_webhook_timestamp"`
}
