package repository

import (
	"context"
	"errors"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderStatusRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderStatusRepository(db *gorm.DB) *DefaultOrderStatusRepository {
	return &DefaultOrderStatusRepository{DB: db}
}

// UpsertStatus writes the status row for status.CollectID in a single
// INSERT ... ON CONFLICT DO UPDATE. The DO UPDATE is guarded so a stored
// success row is only ever replaced by another success: two concurrent
// deliveries for the same order race inside the database, not in Go, and the
// losing downgrade simply updates zero rows.
func (r *DefaultOrderStatusRepository) UpsertStatus(ctx context.Context, status *domain.OrderStatus) (bool, error) {
	if status.ID == "" {
		status.ID = uuid.New().String()
	}
	statusModel := mappers.ToGORMStatus(status)

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collect_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_amount",
			"transaction_amount",
			"payment_mode",
			"payment_details",
			"bank_reference",
			"status",
			"payment_message",
			"error_message",
			"payment_time",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{
				SQL:  "order_status_models.status <> ? OR excluded.status = ?",
				Vars: []interface{}{string(domain.StatusSuccess), string(domain.StatusSuccess)},
			},
		}},
	}).Create(statusModel)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultOrderStatusRepository) GetStatusByOrderID(ctx context.Context, orderID string) (*domain.OrderStatus, error) {
	var statusModel models.OrderStatusModel
	if err := r.DB.WithContext(ctx).First(&statusModel, "collect_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}
	return mappers.ToDomainStatus(&statusModel), nil
}
