package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) (string, error)
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	GetOrderByCollectRequestID(ctx context.Context, collectRequestID string) (*Order, error)
	FindPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*Order, error)
}

type OrderStatusRepository interface {
	// UpsertStatus atomically creates or replaces the status row for
	// status.CollectID. A stored success is never overwritten by a
	// non-success update; applied reports whether the write took effect.
	UpsertStatus(ctx context.Context, status *OrderStatus) (applied bool, err error)
	GetStatusByOrderID(ctx context.Context, orderID string) (*OrderStatus, error)
}

type WebhookLogRepository interface {
	Record(ctx context.Context, log *WebhookLog) (string, error)
	Finish(ctx context.Context, logID string, statusCode int, processed bool, message string) error
}
