package httpapi

import (
	"errors"
	"log/slog"

	"github.com/edupay-labs/school-payment-service/internal/delivery/httpapi/middleware"
	"github.com/edupay-labs/school-payment-service/internal/domain"
	orderdto "github.com/edupay-labs/school-payment-service/internal/usecase/dto/order"
	orderusecase "github.com/edupay-labs/school-payment-service/internal/usecase/order"
	"github.com/edupay-labs/school-payment-service/internal/usecase/reconcile"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	OrderUsecase orderusecase.OrderUsecase
	Poller       *reconcile.StatusPoller
}

func NewOrderHandler(orderUC orderusecase.OrderUsecase, poller *reconcile.StatusPoller) *OrderHandler {
	return &OrderHandler{
		OrderUsecase: orderUC,
		Poller:       poller,
	}
}

// POST /api/payments/create-payment
func (h *OrderHandler) CreatePayment(c *fiber.Ctx) error {
	var input orderdto.CreateCollectOrderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid json: " + err.Error(),
		})
	}

	// Trustees create orders for themselves unless the body says otherwise.
	if input.TrusteeID == "" {
		input.TrusteeID = middleware.CallerID(c)
	}

	output, err := h.OrderUsecase.CreateCollectOrder(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidationFailed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		case errors.Is(err, domain.ErrInvalidSchool):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "School is not recognized by the gateway",
			})
		default:
			var gatewayErr *domain.GatewayError
			if errors.As(err, &gatewayErr) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "Gateway error",
					"message": gatewayErr.Message,
				})
			}
			slog.Error("order creation failed", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to create payment",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":            true,
		"collect_request_id": output.CollectRequestID,
		"payment_link":       output.PaymentLink,
	})
}

// GET /api/payments/status/:collect_request_id
func (h *OrderHandler) CheckStatus(c *fiber.Ctx) error {
	collectRequestID := c.Params("collect_request_id")
	if collectRequestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "collect_request_id is required",
		})
	}
	schoolID := c.Query("school_id")

	result, err := h.Poller.ReconcileByPoll(c.Context(), collectRequestID, schoolID)
	if err != nil {
		var gatewayErr *domain.GatewayError
		if errors.As(err, &gatewayErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Gateway error",
				"message": gatewayErr.Message,
			})
		}
		slog.Error("status poll failed",
			"collect_request_id", collectRequestID,
			"error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to check payment status",
		})
	}

	if result.Raw != nil {
		return c.JSON(result.Raw)
	}
	return c.JSON(fiber.Map{
		"status":          result.Status,
		"amount":          result.AmountPaid,
		"payment_mode":    result.PaymentMode,
		"payment_message": result.PaymentMessage,
	})
}
