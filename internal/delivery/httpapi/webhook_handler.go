package httpapi

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/metrics"
	"github.com/edupay-labs/school-payment-service/internal/usecase/reconcile"
	"github.com/gofiber/fiber/v2"
)

// WebhookHandler ingests gateway notifications. Every delivery is answered
// with HTTP 200 no matter what happened internally: a 4xx/5xx would trigger
// an unbounded redelivery storm from the gateway. Failures are reported only
// through the response body and the webhook log.
type WebhookHandler struct {
	Engine      *reconcile.Engine
	WebhookLogs domain.WebhookLogRepository
	Metrics     *metrics.PaymentMetrics
}

func NewWebhookHandler(engine *reconcile.Engine, webhookLogs domain.WebhookLogRepository, paymentMetrics *metrics.PaymentMetrics) *WebhookHandler {
	return &WebhookHandler{
		Engine:      engine,
		WebhookLogs: webhookLogs,
		Metrics:     paymentMetrics,
	}
}

func (h *WebhookHandler) HandlePost(c *fiber.Ctx) error {
	raw := make([]byte, len(c.Body()))
	copy(raw, c.Body())

	update, shape, normErr := reconcile.NormalizeJSON(raw, time.Now())
	return h.process(c, string(raw), "POST", shape, update, normErr)
}

func (h *WebhookHandler) HandleGet(c *fiber.Ctx) error {
	values := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		values.Set(string(key), string(value))
	})

	update, shape, normErr := reconcile.NormalizeQuery(values, time.Now())
	return h.process(c, values.Encode(), "GET", shape, update, normErr)
}

func (h *WebhookHandler) process(c *fiber.Ctx, rawPayload, method, shape string, update *domain.StatusUpdate, normErr error) error {
	ctx := c.Context()
	h.Metrics.WebhooksReceivedTotal.WithLabelValues(method, shape).Inc()

	// The raw delivery is recorded before any processing so a crash still
	// leaves forensic evidence behind.
	logID, err := h.WebhookLogs.Record(ctx, &domain.WebhookLog{
		Payload: rawPayload,
		Method:  method,
	})
	if err != nil {
		slog.Error("failed to record webhook log", "error", err.Error())
	}

	// finish updates the log exactly once per delivery; audit write
	// failures must never block the response.
	finish := func(statusCode int, processed bool, message string) {
		if logID == "" {
			return
		}
		if err := h.WebhookLogs.Finish(ctx, logID, statusCode, processed, message); err != nil {
			slog.Error("failed to finish webhook log", "log_id", logID, "error", err.Error())
		}
	}

	if normErr != nil {
		finish(fiber.StatusBadRequest, false, "unrecognized payload: "+normErr.Error())
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Unrecognized payload",
		})
	}

	outcome, err := h.Engine.Apply(ctx, update)
	if err != nil {
		slog.Error("webhook reconciliation failed",
			"collect_request_id", update.CollectRequestID,
			"error", err.Error())
		finish(fiber.StatusInternalServerError, false, "internal error: "+err.Error())
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Internal error",
		})
	}

	h.Metrics.ReconciliationOutcomesTotal.WithLabelValues(string(outcome.Kind), "webhook").Inc()

	switch outcome.Kind {
	case domain.OutcomeApplied:
		finish(fiber.StatusOK, true, outcome.Reason)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Webhook processed",
		})
	case domain.OutcomeSuppressed:
		finish(fiber.StatusOK, true, outcome.Reason)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Status already final; update ignored",
		})
	case domain.OutcomeOrderNotFound:
		finish(fiber.StatusNotFound, false, outcome.Reason)
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Order not found",
		})
	case domain.OutcomeInvalidStatus:
		finish(fiber.StatusBadRequest, false, outcome.Reason)
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Invalid status",
		})
	default:
		finish(fiber.StatusInternalServerError, false, "unexpected outcome "+string(outcome.Kind))
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Internal error",
		})
	}
}
