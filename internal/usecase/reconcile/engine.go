package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/kafka"
	"github.com/jaevor/go-nanoid"
)

// Engine is the single reconciliation path: every status report, whether
// pushed by webhook or pulled by poll, terminates in Apply.
type Engine struct {
	OrderRepo  domain.OrderRepository
	StatusRepo domain.OrderStatusRepository
	Publisher  kafka.PaymentEventPublisher
}

func NewEngine(orderRepo domain.OrderRepository, statusRepo domain.OrderStatusRepository, publisher kafka.PaymentEventPublisher) *Engine {
	return &Engine{
		OrderRepo:  orderRepo,
		StatusRepo: statusRepo,
		Publisher:  publisher,
	}
}

// Apply resolves the order for update.CollectRequestID and upserts its status
// record. The upsert is atomic in the store, so replays and concurrent
// deliveries converge: applying the same update twice yields the same stored
// state and the same outcome. A non-nil error means an internal failure; all
// recognized conditions are reported through the outcome instead.
func (e *Engine) Apply(ctx context.Context, update *domain.StatusUpdate) (domain.ReconciliationOutcome, error) {
	order, err := e.OrderRepo.GetOrderByCollectRequestID(ctx, update.CollectRequestID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.ReconciliationOutcome{
				Kind:   domain.OutcomeOrderNotFound,
				Reason: fmt.Sprintf("no order for collect_request_id %s", update.CollectRequestID),
			}, nil
		}
		return domain.ReconciliationOutcome{}, fmt.Errorf("resolving order: %w", err)
	}

	if !domain.ValidPaymentStatus(update.RawStatus) {
		return domain.ReconciliationOutcome{
			Kind:    domain.OutcomeInvalidStatus,
			Reason:  fmt.Sprintf("status %q is not canonical", update.RawStatus),
			OrderID: order.ID,
		}, nil
	}

	orderAmount := update.OrderAmount
	if orderAmount == 0 {
		orderAmount = order.OrderAmount
	}
	transactionAmount := update.TransactionAmount
	if !update.HasTransactionAmount {
		// Settled amount defaults to the order amount on success and to
		// zero otherwise.
		if update.RawStatus == domain.StatusSuccess {
			transactionAmount = orderAmount
		} else {
			transactionAmount = 0
		}
	}

	status := &domain.OrderStatus{
		CollectID:         order.ID,
		OrderAmount:       orderAmount,
		TransactionAmount: transactionAmount,
		PaymentMode:       update.PaymentMode,
		PaymentDetails:    update.PaymentDetails,
		BankReference:     update.BankReference,
		Status:            update.RawStatus,
		PaymentMessage:    update.PaymentMessage,
		ErrorMessage:      update.ErrorMessage,
		PaymentTime:       update.PaymentTime,
	}

	applied, err := e.StatusRepo.UpsertStatus(ctx, status)
	if err != nil {
		return domain.ReconciliationOutcome{}, fmt.Errorf("upserting order status: %w", err)
	}

	if !applied {
		// The store refused the write: a stored success stays a success.
		return domain.ReconciliationOutcome{
			Kind:    domain.OutcomeSuppressed,
			Reason:  "stored status is success; downgrade suppressed",
			OrderID: order.ID,
		}, nil
	}

	eventID := ""
	if idGenerator, idErr := nanoid.Standard(15); idErr == nil {
		eventID = idGenerator()
	}
	if err := e.Publisher.Publish(ctx, kafka.PaymentEvent{
		EventID:           eventID,
		OrderID:           order.ID,
		CollectRequestID:  update.CollectRequestID,
		SchoolID:          order.SchoolID,
		Status:            string(update.RawStatus),
		OrderAmount:       orderAmount,
		TransactionAmount: transactionAmount,
		PaymentMode:       update.PaymentMode,
	}); err != nil {
		// Event delivery is best-effort; the reconciled state is already
		// durable.
		slog.Error("failed to publish payment event",
			"order_id", order.ID,
			"error", err.Error())
	}

	return domain.ReconciliationOutcome{
		Kind:    domain.OutcomeApplied,
		Reason:  fmt.Sprintf("status %s applied", update.RawStatus),
		OrderID: order.ID,
	}, nil
}
