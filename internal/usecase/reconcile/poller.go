package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/config"
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/metrics"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/sign"
)

// StatusPoller is the pull-side reconciliation path: it asks the gateway for
// the current collection status and, when the gateway reports success for an
// order with no stored status yet, routes a synthesized update through the
// same engine as the webhook path.
type StatusPoller struct {
	Gateway    domain.GatewayClient
	Signer     *sign.GatewaySigner
	OrderRepo  domain.OrderRepository
	StatusRepo domain.OrderStatusRepository
	Engine     *Engine
	Metrics    *metrics.PaymentMetrics
	GatewayCfg config.Gateway
}

func NewStatusPoller(
	gateway domain.GatewayClient,
	signer *sign.GatewaySigner,
	orderRepo domain.OrderRepository,
	statusRepo domain.OrderStatusRepository,
	engine *Engine,
	paymentMetrics *metrics.PaymentMetrics,
	gatewayCfg config.Gateway) *StatusPoller {

	return &StatusPoller{
		Gateway:    gateway,
		Signer:     signer,
		OrderRepo:  orderRepo,
		StatusRepo: statusRepo,
		Engine:     engine,
		Metrics:    paymentMetrics,
		GatewayCfg: gatewayCfg,
	}
}

// ReconcileByPoll queries the gateway and returns its raw status result.
// Reconciliation is a side effect: a successful gateway report for an order
// that has no status row yet is applied through the engine.
func (p *StatusPoller) ReconcileByPoll(ctx context.Context, collectRequestID, schoolID string) (*domain.GatewayStatusResult, error) {
	if schoolID == "" {
		schoolID = p.GatewayCfg.DefaultSchoolID
	}

	signedQuery, err := p.Signer.SignStatusQuery(schoolID, collectRequestID)
	if err != nil {
		return nil, fmt.Errorf("signing status query: %w", err)
	}

	started := time.Now()
	result, err := p.Gateway.QueryStatus(ctx, collectRequestID, schoolID, signedQuery)
	p.Metrics.GatewayRequestDuration.WithLabelValues("query_status").Observe(time.Since(started).Seconds())
	if err != nil {
		p.Metrics.GatewayErrorsTotal.WithLabelValues("query_status").Inc()
		return nil, err
	}

	if !strings.EqualFold(result.Status, string(domain.StatusSuccess)) {
		return result, nil
	}

	order, err := p.OrderRepo.GetOrderByCollectRequestID(ctx, collectRequestID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			// The gateway knows this collection but we never created it;
			// nothing to reconcile against.
			return result, nil
		}
		return nil, err
	}

	if _, err := p.StatusRepo.GetStatusByOrderID(ctx, order.ID); err == nil {
		// A webhook already reconciled this order; the engine's
		// no-downgrade rule makes a re-apply redundant here.
		return result, nil
	} else if !errors.Is(err, domain.ErrStatusNotFound) {
		return nil, err
	}

	now := time.Now()
	update := &domain.StatusUpdate{
		CollectRequestID:     collectRequestID,
		RawStatus:            domain.StatusSuccess,
		OrderAmount:          order.OrderAmount,
		TransactionAmount:    result.AmountPaid,
		HasTransactionAmount: result.AmountPaid > 0,
		PaymentMode:          result.PaymentMode,
		PaymentDetails:       result.PaymentDetails,
		BankReference:        result.BankReference,
		PaymentMessage:       result.PaymentMessage,
		ErrorMessage:         result.ErrorMessage,
		PaymentTime:          parsePaymentTime(result.PaymentTime),
	}
	if update.BankReference == "" {
		update.BankReference = fmt.Sprintf("poll-%d", now.Unix())
	}
	if update.PaymentTime.IsZero() {
		update.PaymentTime = now
	}

	outcome, err := p.Engine.Apply(ctx, update)
	if err != nil {
		return nil, err
	}
	p.Metrics.ReconciliationOutcomesTotal.WithLabelValues(string(outcome.Kind), "poll").Inc()
	slog.Info("poll reconciliation",
		"collect_request_id", collectRequestID,
		"outcome", string(outcome.Kind))

	return result, nil
}
