package orderdto

import "github.com/edupay-labs/school-payment-service/internal/domain"

type CreateCollectOrderOutput struct {
	Order            domain.Order
	CollectRequestID string
	PaymentLink      string
}
