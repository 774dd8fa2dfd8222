package mappers

import (
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainStatus(model *models.OrderStatusModel) *domain.OrderStatus {
	return &domain.OrderStatus{
		ID:                model.ID,
		CollectID:         model.CollectID,
		OrderAmount:       model.OrderAmount,
		TransactionAmount: model.TransactionAmount,
		PaymentMode:       model.PaymentMode,
		PaymentDetails:    model.PaymentDetails,
		BankReference:     model.BankReference,
		Status:            domain.PaymentStatus(model.Status),
		PaymentMessage:    model.PaymentMessage,
		ErrorMessage:      model.ErrorMessage,
		PaymentTime:       model.PaymentTime,
	}
}

func ToGORMStatus(status *domain.OrderStatus) *models.OrderStatusModel {
	return &models.OrderStatusModel{
		ID:                status.ID,
		CollectID:         status.CollectID,
		OrderAmount:       status.OrderAmount,
		TransactionAmount: status.TransactionAmount,
		PaymentMode:       status.PaymentMode,
		PaymentDetails:    status.PaymentDetails,
		BankReference:     status.BankReference,
		Status:            string(status.Status),
		PaymentMessage:    status.PaymentMessage,
		ErrorMessage:      status.ErrorMessage,
		PaymentTime:       status.PaymentTime,
	}
}
