package mappers

import (
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:        model.ID,
		SchoolID:  model.SchoolID,
		TrusteeID: model.TrusteeID,
		StudentInfo: domain.StudentInfo{
			Name:      model.StudentName,
			StudentID: model.StudentID,
			Email:     model.StudentEmail,
		},
		GatewayName:   model.GatewayName,
		CustomOrderID: model.CustomOrderID,
		PaymentLink:   model.PaymentLink,
		OrderAmount:   model.OrderAmount,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:            order.ID,
		SchoolID:      order.SchoolID,
		TrusteeID:     order.TrusteeID,
		StudentName:   order.StudentInfo.Name,
		StudentID:     order.StudentInfo.StudentID,
		StudentEmail:  order.StudentInfo.Email,
		GatewayName:   order.GatewayName,
		CustomOrderID: order.CustomOrderID,
		PaymentLink:   order.PaymentLink,
		OrderAmount:   order.OrderAmount,
		CreatedAt:     order.CreatedAt,
	}
}
