package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/kafka"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/metrics"
	"github.com/edupay-labs/school-payment-service/internal/usecase/reconcile"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.PaymentMetrics
)

// sharedMetrics returns a process-wide metrics set; the prometheus default
// registry rejects duplicate registration.
func sharedMetrics() *metrics.PaymentMetrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewPaymentMetrics()
	})
	return testMetrics
}

type memOrderRepo struct {
	byCollectID map[string]*domain.Order
}

func (r *memOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) (string, error) {
	r.byCollectID[order.CustomOrderID] = order
	return order.ID, nil
}

func (r *memOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	for _, order := range r.byCollectID {
		if order.ID == orderID {
			return order, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *memOrderRepo) GetOrderByCollectRequestID(ctx context.Context, collectRequestID string) (*domain.Order, error) {
	order, ok := r.byCollectID[collectRequestID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *memOrderRepo) FindPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*domain.Order, error) {
	return nil, nil
}

type memStatusRepo struct {
	byOrder map[string]*domain.OrderStatus
}

func (r *memStatusRepo) UpsertStatus(ctx context.Context, status *domain.OrderStatus) (bool, error) {
	existing, ok := r.byOrder[status.CollectID]
	if ok && existing.Status == domain.StatusSuccess && status.Status != domain.StatusSuccess {
		return false, nil
	}
	copied := *status
	r.byOrder[status.CollectID] = &copied
	return true, nil
}

func (r *memStatusRepo) GetStatusByOrderID(ctx context.Context, orderID string) (*domain.OrderStatus, error) {
	status, ok := r.byOrder[orderID]
	if !ok {
		return nil, domain.ErrStatusNotFound
	}
	return status, nil
}

type memWebhookLogRepo struct {
	logs map[string]*domain.WebhookLog
}

func (r *memWebhookLogRepo) Record(ctx context.Context, log *domain.WebhookLog) (string, error) {
	log.ID = uuid.New().String()
	log.StatusCode = 200
	log.Timestamp = time.Now()
	r.logs[log.ID] = log
	return log.ID, nil
}

func (r *memWebhookLogRepo) Finish(ctx context.Context, logID string, statusCode int, processed bool, message string) error {
	log, ok := r.logs[logID]
	if !ok {
		return domain.ErrStatusNotFound
	}
	log.StatusCode = statusCode
	log.Processed = processed
	log.Message = message
	return nil
}

func (r *memWebhookLogRepo) single(t *testing.T) *domain.WebhookLog {
	t.Helper()
	require.Len(t, r.logs, 1)
	for _, log := range r.logs {
		return log
	}
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event kafka.PaymentEvent) error { return nil }

func newWebhookTestApp(orders ...*domain.Order) (*fiber.App, *memStatusRepo, *memWebhookLogRepo) {
	orderRepo := &memOrderRepo{byCollectID: map[string]*domain.Order{}}
	for _, order := range orders {
		orderRepo.byCollectID[order.CustomOrderID] = order
	}
	statusRepo := &memStatusRepo{byOrder: map[string]*domain.OrderStatus{}}
	logRepo := &memWebhookLogRepo{logs: map[string]*domain.WebhookLog{}}

	engine := reconcile.NewEngine(orderRepo, statusRepo, noopPublisher{})
	handler := NewWebhookHandler(engine, logRepo, sharedMetrics())

	app := fiber.New()
	app.Post("/api/payments/webhook", handler.HandlePost)
	app.Get("/api/payments/webhook", handler.HandleGet)
	return app, statusRepo, logRepo
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))
	return decoded
}

func TestWebhook_AppliedUpdate(t *testing.T) {
	app, statusRepo, logRepo := newWebhookTestApp(&domain.Order{
		ID:            "order-1",
		SchoolID:      "school-1",
		CustomOrderID: "collect-1",
		OrderAmount:   2000,
	})

	payload := `{"collect_request_id": "collect-1", "status": "SUCCESS", "amount": 2000}`
	req := httptest.NewRequest("POST", "/api/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Webhook processed", body["message"])

	stored, err := statusRepo.GetStatusByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, stored.Status)

	log := logRepo.single(t)
	assert.Equal(t, 200, log.StatusCode)
	assert.True(t, log.Processed)
	assert.Equal(t, "POST", log.Method)
	assert.Contains(t, log.Payload, "collect-1")
}

func TestWebhook_OrderNotFoundStillAnswers200(t *testing.T) {
	app, _, logRepo := newWebhookTestApp()

	payload := `{"collect_request_id": "ghost", "status": "SUCCESS"}`
	req := httptest.NewRequest("POST", "/api/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Order not found", body["error"])

	log := logRepo.single(t)
	assert.Equal(t, 404, log.StatusCode)
	assert.False(t, log.Processed)
}

func TestWebhook_UnrecognizedPayload(t *testing.T) {
	app, _, logRepo := newWebhookTestApp()

	req := httptest.NewRequest("POST", "/api/payments/webhook", strings.NewReader(`{"surprise": true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unrecognized payload", body["error"])

	log := logRepo.single(t)
	assert.Equal(t, 400, log.StatusCode)
	assert.False(t, log.Processed)
	assert.Contains(t, log.Payload, "surprise")
}

func TestWebhook_DowngradeSuppressed(t *testing.T) {
	app, statusRepo, _ := newWebhookTestApp(&domain.Order{
		ID:            "order-1",
		SchoolID:      "school-1",
		CustomOrderID: "collect-1",
		OrderAmount:   2000,
	})

	send := func(status string) map[string]interface{} {
		payload := `{"collect_request_id": "collect-1", "status": "` + status + `"}`
		req := httptest.NewRequest("POST", "/api/payments/webhook", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		return decodeBody(t, resp.Body)
	}

	first := send("SUCCESS")
	assert.Equal(t, true, first["success"])

	second := send("FAILED")
	assert.Equal(t, true, second["success"])
	assert.Equal(t, "Status already final; update ignored", second["message"])

	stored, err := statusRepo.GetStatusByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, stored.Status)
}

func TestWebhook_GetVariant(t *testing.T) {
	app, statusRepo, logRepo := newWebhookTestApp(&domain.Order{
		ID:            "order-1",
		SchoolID:      "school-1",
		CustomOrderID: "collect-1",
		OrderAmount:   1000,
	})

	req := httptest.NewRequest("GET", "/api/payments/webhook?collect_request_id=collect-1&status=SUCCESS&amount=1000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])

	stored, err := statusRepo.GetStatusByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, stored.Status)

	log := logRepo.single(t)
	assert.Equal(t, "GET", log.Method)
	assert.Contains(t, log.Payload, "collect_request_id=collect-1")
}

func TestWebhook_OrderInfoShape(t *testing.T) {
	app, statusRepo, _ := newWebhookTestApp(&domain.Order{
		ID:            "order-1",
		SchoolID:      "school-1",
		CustomOrderID: "6808bc4888e4e3c149e757f1",
		OrderAmount:   2000,
	})

	payload := `{
		"status": 200,
		"order_info": {
			"order_id": "6808bc4888e4e3c149e757f1/txn_1",
			"order_amount": 2000,
			"transaction_amount": 2200,
			"gateway": "PhonePe",
			"bank_reference": "YESBNK222",
			"status": "success",
			"payment_mode": "upi",
			"payemnt_details": "success@ybl",
			"Payment_message": "payment success",
			"payment_time": "2025-04-23T08:14:21.945+00:00",
			"error_message": "NA"
		}
	}`
	req := httptest.NewRequest("POST", "/api/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := statusRepo.GetStatusByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, stored.Status)
	assert.Equal(t, 2200.0, stored.TransactionAmount)
	assert.Equal(t, "success@ybl", stored.PaymentDetails)
	assert.Empty(t, stored.ErrorMessage)
}
