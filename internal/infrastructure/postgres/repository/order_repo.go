package repository

import (
	"context"
	"errors"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (string, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return "", err
	}
	return orderModel.ID, nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) GetOrderByCollectRequestID(ctx context.Context, collectRequestID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "custom_order_id = ?", collectRequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&order), nil
}

// FindPendingOlderThan returns orders created before now-age that either have
// no status row yet or are still pending. Used by the background sweep.
func (r *DefaultOrderRepository) FindPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	cutoff := time.Now().Add(-age)

	err := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Joins("LEFT JOIN order_status_models ON order_status_models.collect_id = order_models.id").
		Where("order_models.created_at < ?", cutoff).
		Where("order_status_models.id IS NULL OR order_status_models.status = ?", string(domain.StatusPending)).
		Order("order_models.created_at ASC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, nil
}
