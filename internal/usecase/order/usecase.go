package order

import (
	"context"

	"github.com/edupay-labs/school-payment-service/internal/config"
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/logger"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/metrics"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/sign"
	orderdto "github.com/edupay-labs/school-payment-service/internal/usecase/dto/order"
	"github.com/go-playground/validator/v10"
)

type OrderUsecase interface {
	CreateCollectOrder(ctx context.Context, input *orderdto.CreateCollectOrderInput) (*orderdto.CreateCollectOrderOutput, error)
	GetOrderByCollectRequestID(ctx context.Context, collectRequestID string) (*domain.Order, error)
}

type DefaultOrderUsecase struct {
	OrderRepo   domain.OrderRepository
	Gateway     domain.GatewayClient
	Signer      *sign.GatewaySigner
	EventLogger logger.OrderEventLogger
	Metrics     *metrics.PaymentMetrics
	GatewayCfg  config.Gateway
	validate    *validator.Validate
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	gateway domain.GatewayClient,
	signer *sign.GatewaySigner,
	eventLogger logger.OrderEventLogger,
	paymentMetrics *metrics.PaymentMetrics,
	gatewayCfg config.Gateway) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		OrderRepo:   orderRepo,
		Gateway:     gateway,
		Signer:      signer,
		EventLogger: eventLogger,
		Metrics:     paymentMetrics,
		GatewayCfg:  gatewayCfg,
		validate:    validator.New(),
	}
}
