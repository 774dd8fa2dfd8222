package transactions

import (
	"context"

	"github.com/edupay-labs/school-payment-service/internal/domain"
)

// Usecase serves the read-only reporting endpoints over reconciled data.
type Usecase struct {
	TransactionRepo domain.TransactionRepository
	OrderRepo       domain.OrderRepository
	StatusRepo      domain.OrderStatusRepository
}

func NewUsecase(transactionRepo domain.TransactionRepository, orderRepo domain.OrderRepository, statusRepo domain.OrderStatusRepository) *Usecase {
	return &Usecase{
		TransactionRepo: transactionRepo,
		OrderRepo:       orderRepo,
		StatusRepo:      statusRepo,
	}
}

func (uc *Usecase) ListTransactions(ctx context.Context, filters domain.TransactionFilters) ([]*domain.Transaction, int64, error) {
	return uc.TransactionRepo.ListTransactions(ctx, filters)
}

func (uc *Usecase) Summarize(ctx context.Context, trusteeID string) ([]domain.StatusSummary, error) {
	return uc.TransactionRepo.Summarize(ctx, trusteeID)
}

func (uc *Usecase) TrusteeHasSchoolAccess(ctx context.Context, trusteeID, schoolID string) (bool, error) {
	return uc.TransactionRepo.TrusteeHasSchoolAccess(ctx, trusteeID, schoolID)
}

// StatusByCustomOrderID resolves an order by its gateway correlation id and
// returns the stored status. Callers get ErrOrderNotFound or
// ErrStatusNotFound when either half is missing.
func (uc *Usecase) StatusByCustomOrderID(ctx context.Context, customOrderID string) (*domain.Order, *domain.OrderStatus, error) {
	order, err := uc.OrderRepo.GetOrderByCollectRequestID(ctx, customOrderID)
	if err != nil {
		return nil, nil, err
	}
	status, err := uc.StatusRepo.GetStatusByOrderID(ctx, order.ID)
	if err != nil {
		return order, nil, err
	}
	return order, status, nil
}
