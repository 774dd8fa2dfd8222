package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/logger"
	orderdto "github.com/edupay-labs/school-payment-service/internal/usecase/dto/order"
)

// CreateCollectOrder asks the gateway for a collection link and persists the
// order keyed by the gateway-assigned collect_request_id. Nothing is stored
// when the gateway call fails.
func (uc *DefaultOrderUsecase) CreateCollectOrder(ctx context.Context, input *orderdto.CreateCollectOrderInput) (*orderdto.CreateCollectOrderOutput, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}

	// Explicit school id wins, else the configured default. Documented
	// fallback for single-school deployments.
	schoolID := input.SchoolID
	if schoolID == "" {
		schoolID = uc.GatewayCfg.DefaultSchoolID
	}
	callbackURL := input.CallbackURL
	if callbackURL == "" {
		callbackURL = uc.GatewayCfg.CallbackURL
	}

	signedRequest, err := uc.Signer.SignCreateCollection(schoolID, input.OrderAmount, callbackURL)
	if err != nil {
		return nil, fmt.Errorf("signing collect request: %w", err)
	}

	started := time.Now()
	result, err := uc.Gateway.CreateCollection(ctx, schoolID, input.OrderAmount, callbackURL, signedRequest)
	uc.Metrics.GatewayRequestDuration.WithLabelValues("create_collection").Observe(time.Since(started).Seconds())
	if err != nil {
		uc.Metrics.GatewayErrorsTotal.WithLabelValues("create_collection").Inc()
		reason := "gateway_error"
		if errors.Is(err, domain.ErrInvalidSchool) {
			reason = "invalid_school"
		}
		uc.Metrics.OrderCreateErrorsTotal.WithLabelValues(reason).Inc()
		if logErr := uc.EventLogger.LogOrderFailed(ctx, logger.OrderFailedEvent{
			SchoolID:    schoolID,
			TrusteeID:   input.TrusteeID,
			Reason:      err.Error(),
			OrderAmount: input.OrderAmount,
			GatewayName: uc.GatewayCfg.Name,
			Timestamp:   time.Now(),
		}); logErr != nil {
			slog.Error("failed to log order-failed event", "error", logErr.Error())
		}
		return nil, err
	}

	order := &domain.Order{
		SchoolID:  schoolID,
		TrusteeID: input.TrusteeID,
		StudentInfo: domain.StudentInfo{
			Name:      input.StudentInfo.Name,
			StudentID: input.StudentInfo.ID,
			Email:     input.StudentInfo.Email,
		},
		GatewayName:   uc.GatewayCfg.Name,
		CustomOrderID: result.CollectRequestID,
		PaymentLink:   result.PaymentLink,
		OrderAmount:   input.OrderAmount,
	}

	orderID, err := uc.OrderRepo.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("persisting order: %w", err)
	}
	order.ID = orderID

	uc.Metrics.OrdersCreatedTotal.WithLabelValues(schoolID, uc.GatewayCfg.Name).Inc()
	uc.Metrics.OrdersCreatedAmountTotal.WithLabelValues(schoolID, uc.GatewayCfg.Name).Add(input.OrderAmount)

	if logErr := uc.EventLogger.LogOrderCreated(ctx, logger.OrderCreatedEvent{
		OrderID:          order.ID,
		CollectRequestID: order.CustomOrderID,
		SchoolID:         schoolID,
		TrusteeID:        input.TrusteeID,
		StudentEmail:     order.StudentInfo.Email,
		OrderAmount:      order.OrderAmount,
		GatewayName:      order.GatewayName,
		Timestamp:        time.Now(),
	}); logErr != nil {
		slog.Error("failed to log order-created event", "error", logErr.Error())
	}

	slog.Info("collection order created",
		"order_id", order.ID,
		"collect_request_id", order.CustomOrderID,
		"school_id", schoolID,
		"amount", order.OrderAmount)

	return &orderdto.CreateCollectOrderOutput{
		Order:            *order,
		CollectRequestID: result.CollectRequestID,
		PaymentLink:      result.PaymentLink,
	}, nil
}
