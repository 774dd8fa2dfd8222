package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics holds every metric the payment service exports.
type PaymentMetrics struct {
	OrdersCreatedTotal       prometheus.CounterVec
	OrdersCreatedAmountTotal prometheus.CounterVec
	OrderCreateErrorsTotal   prometheus.CounterVec

	WebhooksReceivedTotal prometheus.CounterVec

	ReconciliationOutcomesTotal prometheus.CounterVec

	GatewayRequestDuration prometheus.HistogramVec
	GatewayErrorsTotal     prometheus.CounterVec

	PendingSweepReconciledTotal prometheus.Counter
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		OrdersCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Number of collection orders created",
			},
			[]string{"school_id", "gateway"},
		),

		OrdersCreatedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_amount_total",
				Help: "Total declared amount of created collection orders",
			},
			[]string{"school_id", "gateway"},
		),

		OrderCreateErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_create_errors_total",
				Help: "Order creation failures by reason",
			},
			[]string{"reason"},
		),

		WebhooksReceivedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhooks_received_total",
				Help: "Inbound webhook deliveries by HTTP method and payload shape",
			},
			[]string{"method", "shape"},
		),

		ReconciliationOutcomesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciliation_outcomes_total",
				Help: "Reconciliation engine outcomes",
			},
			[]string{"outcome", "trigger"},
		),

		GatewayRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Outbound gateway call duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"operation"},
		),

		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_errors_total",
				Help: "Outbound gateway call failures",
			},
			[]string{"operation"},
		),

		PendingSweepReconciledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pending_sweep_reconciled_total",
				Help: "Orders reconciled by the background pending sweep",
			},
		),
	}
}
