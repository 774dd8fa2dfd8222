package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/client"
	"github.com/edupay-labs/school-payment-service/internal/config"
	"github.com/edupay-labs/school-payment-service/internal/delivery/httpapi"
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/kafka"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/logger"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/metrics"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/migrate"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/repository"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/sign"
	orderusecase "github.com/edupay-labs/school-payment-service/internal/usecase/order"
	"github.com/edupay-labs/school-payment-service/internal/usecase/reconcile"
	"github.com/edupay-labs/school-payment-service/internal/usecase/transactions"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)
	// Run migrations
	if cfg.PaymentDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.PaymentDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init metrics
	paymentMetrics := metrics.NewPaymentMetrics()

	// Init kafka publisher
	var publisher kafka.PaymentEventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
		publisher = kafka.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
	}

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	statusRepo := repository.NewDefaultOrderStatusRepository(db)
	webhookLogRepo := repository.NewDefaultWebhookLogRepository(db)
	transactionRepo := repository.NewDefaultTransactionRepository(db)

	// Init gateway client and signer
	gatewayClient := client.NewHTTPGatewayClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)
	signer := sign.NewGatewaySigner(cfg.Gateway.PGKey)

	// Init event logger
	eventLogger := logger.NewPGOrderEventLogger(db)

	// Init usecases
	orderUc := orderusecase.NewDefaultOrderUsecase(orderRepo, gatewayClient, signer, eventLogger, paymentMetrics, cfg.Gateway)
	engine := reconcile.NewEngine(orderRepo, statusRepo, publisher)
	poller := reconcile.NewStatusPoller(gatewayClient, signer, orderRepo, statusRepo, engine, paymentMetrics, cfg.Gateway)
	transactionsUc := transactions.NewUsecase(transactionRepo, orderRepo, statusRepo)

	// Init handlers
	webhookHandler := httpapi.NewWebhookHandler(engine, webhookLogRepo, paymentMetrics)
	orderHandler := httpapi.NewOrderHandler(orderUc, poller)
	transactionHandler := httpapi.NewTransactionHandler(transactionsUc)

	app := fiber.New(fiber.Config{
		AppName: "school-payment-service",
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	httpapi.RegisterRoutes(app, cfg.Auth.JWTSecret, webhookHandler, orderHandler, transactionHandler)

	// Metrics endpoint on its own listener
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Fatalf("metrics server failed: %v", err)
			}
		}()
	}

	// Periodic re-poll of stale pending orders
	if cfg.Sweep.Enabled {
		go runPendingSweep(context.Background(), cfg, orderRepo, poller, paymentMetrics)
	}

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("starting payment service", "addr", addr, "env", cfg.Env)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

const pendingSweepBatchSize = 50

// runPendingSweep periodically asks the gateway about orders that were created
// long enough ago but still have no final status. A terminal answer flows
// through the same reconciliation path a webhook would take.
func runPendingSweep(ctx context.Context, cfg *config.PaymentConfig, orderRepo domain.OrderRepository, poller *reconcile.StatusPoller, paymentMetrics *metrics.PaymentMetrics) {
	ticker := time.NewTicker(cfg.Sweep.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pending, err := orderRepo.FindPendingOlderThan(ctx, cfg.Sweep.PendingAge, pendingSweepBatchSize)
		if err != nil {
			slog.Error("pending sweep: failed to list stale orders", "error", err.Error())
			continue
		}

		for _, order := range pending {
			result, err := poller.ReconcileByPoll(ctx, order.CustomOrderID, order.SchoolID)
			if err != nil {
				slog.Error("pending sweep: poll failed",
					"collect_request_id", order.CustomOrderID,
					"error", err.Error())
				continue
			}
			if strings.EqualFold(result.Status, string(domain.StatusSuccess)) {
				paymentMetrics.PendingSweepReconciledTotal.Inc()
			}
		}

		if len(pending) > 0 {
			slog.Info("pending sweep finished", "orders_checked", len(pending))
		}
	}
}
