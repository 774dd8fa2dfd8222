package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type OrderCreatedEvent struct {
	ID               uint `gorm:"primaryKey"`
	OrderID          string
	CollectRequestID string
	SchoolID         string
	TrusteeID        string
	StudentEmail     string
	OrderAmount      float64
	GatewayName      string
	Timestamp        time.Time
}

type OrderFailedEvent struct {
	ID          uint `gorm:"primaryKey"`
	SchoolID    string
	TrusteeID   string
	Reason      string
	OrderAmount float64
	GatewayName string
	Timestamp   time.Time
}

type OrderEventLogger interface {
	LogOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	LogOrderFailed(ctx context.Context, event OrderFailedEvent) error
}

type PGOrderEventLogger struct {
	db *gorm.DB
}

func NewPGOrderEventLogger(db *gorm.DB) *PGOrderEventLogger {
	return &PGOrderEventLogger{db: db}
}

func (l *PGOrderEventLogger) LogOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGOrderEventLogger) LogOrderFailed(ctx context.Context, event OrderFailedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
