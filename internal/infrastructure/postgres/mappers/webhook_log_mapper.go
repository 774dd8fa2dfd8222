package mappers

import (
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainWebhookLog(model *models.WebhookLogModel) *domain.WebhookLog {
	return &domain.WebhookLog{
		ID:         model.ID,
		Payload:    model.Payload,
		Method:     model.Method,
		StatusCode: model.StatusCode,
		Processed:  model.Processed,
		Message:    model.Message,
		Timestamp:  model.Timestamp,
	}
}

func ToGORMWebhookLog(log *domain.WebhookLog) *models.WebhookLogModel {
	return &models.WebhookLogModel{
		ID:         log.ID,
		Payload:    log.Payload,
		Method:     log.Method,
		StatusCode: log.StatusCode,
		Processed:  log.Processed,
		Message:    log.Message,
		Timestamp:  log.Timestamp,
	}
}
