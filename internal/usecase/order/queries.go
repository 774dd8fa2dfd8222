package order

import (
	"context"

	"github.com/edupay-labs/school-payment-service/internal/domain"
)

func (uc *DefaultOrderUsecase) GetOrderByCollectRequestID(ctx context.Context, collectRequestID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByCollectRequestID(ctx, collectRequestID)
}
