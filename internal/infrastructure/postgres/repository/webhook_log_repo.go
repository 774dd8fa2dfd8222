package repository

import (
	"context"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultWebhookLogRepository struct {
	DB *gorm.DB
}

func NewDefaultWebhookLogRepository(db *gorm.DB) *DefaultWebhookLogRepository {
	return &DefaultWebhookLogRepository{DB: db}
}

func (r *DefaultWebhookLogRepository) Record(ctx context.Context, log *domain.WebhookLog) (string, error) {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	if log.StatusCode == 0 {
		log.StatusCode = 200
	}
	logModel := mappers.ToGORMWebhookLog(log)
	if err := r.DB.WithContext(ctx).Create(logModel).Error; err != nil {
		return "", err
	}
	return logModel.ID, nil
}

func (r *DefaultWebhookLogRepository) Finish(ctx context.Context, logID string, statusCode int, processed bool, message string) error {
	return r.DB.WithContext(ctx).
		Model(&models.WebhookLogModel{}).
		Where("id = ?", logID).
		Updates(map[string]interface{}{
			"status_code": statusCode,
			"processed":   processed,
			"message":     message,
		}).Error
}
