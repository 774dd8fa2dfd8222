package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/edupay-labs/school-payment-service/internal/delivery/httpapi/middleware"
	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/usecase/transactions"
	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	Usecase *transactions.Usecase
}

func NewTransactionHandler(uc *transactions.Usecase) *TransactionHandler {
	return &TransactionHandler{Usecase: uc}
}

func parseStatusFilter(raw string) domain.PaymentStatus {
	status := domain.PaymentStatus(strings.ToLower(raw))
	if domain.ValidPaymentStatus(status) {
		return status
	}
	return ""
}

type transactionView struct {
	ID                string  `json:"id"`
	CollectID         string  `json:"collect_id"`
	SchoolID          string  `json:"school_id"`
	Gateway           string  `json:"gateway"`
	CustomOrderID     string  `json:"custom_order_id"`
	OrderAmount       float64 `json:"order_amount"`
	TransactionAmount float64 `json:"transaction_amount"`
	Status            string  `json:"status"`
	PaymentMode       string  `json:"payment_mode"`
	BankReference     string  `json:"bank_reference"`
	PaymentTime       string  `json:"payment_time"`
}

func toTransactionView(t *domain.Transaction) transactionView {
	bankReference := t.BankReference
	if bankReference == "" {
		bankReference = "N/A"
	}
	return transactionView{
		ID:                t.StatusID,
		CollectID:         t.CollectID,
		SchoolID:          t.SchoolID,
		Gateway:           t.Gateway,
		CustomOrderID:     t.CustomOrderID,
		OrderAmount:       t.OrderAmount,
		TransactionAmount: t.TransactionAmount,
		Status:            string(t.Status),
		PaymentMode:       t.PaymentMode,
		BankReference:     bankReference,
		PaymentTime:       t.PaymentTime.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GET /api/transactions
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filters := domain.TransactionFilters{
		Status: parseStatusFilter(c.Query("status")),
	}
	if middleware.CallerRole(c) == middleware.RoleTrustee {
		filters.TrusteeID = middleware.CallerID(c)
	}

	list, _, err := h.Usecase.ListTransactions(c.Context(), filters)
	if err != nil {
		slog.Error("failed to list transactions", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch transactions",
		})
	}

	views := make([]transactionView, 0, len(list))
	for _, t := range list {
		views = append(views, toTransactionView(t))
	}
	return c.JSON(views)
}

// GET /api/transactions/summary
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	trusteeID := ""
	if middleware.CallerRole(c) == middleware.RoleTrustee {
		trusteeID = middleware.CallerID(c)
	}

	summaries, err := h.Usecase.Summarize(c.Context(), trusteeID)
	if err != nil {
		slog.Error("failed to summarize transactions", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to generate transaction summary",
		})
	}

	byStatus := map[domain.PaymentStatus]domain.StatusSummary{}
	var totalCount int64
	var totalAmount float64
	for _, s := range summaries {
		byStatus[s.Status] = s
		totalCount += s.Count
		totalAmount += s.TotalAmount
	}

	// Every status is always represented, zeroed when absent.
	formatted := make([]fiber.Map, 0, 3)
	for _, status := range []domain.PaymentStatus{domain.StatusSuccess, domain.StatusPending, domain.StatusFailed} {
		s := byStatus[status]
		percentage := "0"
		if totalCount > 0 {
			percentage = fmt.Sprintf("%.2f", float64(s.Count)/float64(totalCount)*100)
		}
		formatted = append(formatted, fiber.Map{
			"status":      string(status),
			"count":       s.Count,
			"totalAmount": s.TotalAmount,
			"percentage":  percentage,
		})
	}

	successRate := "0"
	if totalCount > 0 {
		successRate = fmt.Sprintf("%.2f", float64(byStatus[domain.StatusSuccess].Count)/float64(totalCount)*100)
	}

	return c.JSON(fiber.Map{
		"summary": formatted,
		"totals": fiber.Map{
			"totalTransactions": totalCount,
			"totalAmount":       totalAmount,
			"successRate":       successRate,
		},
	})
}

// GET /api/transactions/school/:school_id
func (h *TransactionHandler) BySchool(c *fiber.Ctx) error {
	schoolID := c.Params("school_id")

	if middleware.CallerRole(c) == middleware.RoleTrustee {
		hasAccess, err := h.Usecase.TrusteeHasSchoolAccess(c.Context(), middleware.CallerID(c), schoolID)
		if err != nil {
			slog.Error("failed to check school access", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to fetch school transactions",
			})
		}
		if !hasAccess {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Not authorized to view transactions for this school",
			})
		}
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	filters := domain.TransactionFilters{
		Status:   parseStatusFilter(c.Query("status")),
		SchoolID: schoolID,
		Page:     page,
		Limit:    limit,
	}

	list, total, err := h.Usecase.ListTransactions(c.Context(), filters)
	if err != nil {
		slog.Error("failed to list school transactions", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch school transactions",
		})
	}

	views := make([]transactionView, 0, len(list))
	for _, t := range list {
		views = append(views, toTransactionView(t))
	}

	totalPages := int64(0)
	if limit > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	return c.JSON(fiber.Map{
		"transactions": views,
		"pagination": fiber.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalRecords": total,
		},
	})
}

// GET /api/transactions/status/:custom_order_id
func (h *TransactionHandler) StatusByCustomOrderID(c *fiber.Ctx) error {
	customOrderID := c.Params("custom_order_id")

	order, status, err := h.Usecase.StatusByCustomOrderID(c.Context(), customOrderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Order not found",
			})
		case errors.Is(err, domain.ErrStatusNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "No transaction found for this order",
			})
		default:
			slog.Error("failed to check transaction status", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to check transaction status",
			})
		}
	}

	if middleware.CallerRole(c) == middleware.RoleTrustee && order.TrusteeID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Not authorized to view this transaction",
		})
	}

	bankReference := status.BankReference
	if bankReference == "" {
		bankReference = "N/A"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"transaction": fiber.Map{
			"custom_order_id":    customOrderID,
			"status":             string(status.Status),
			"payment_time":       status.PaymentTime,
			"payment_mode":       status.PaymentMode,
			"transaction_amount": status.TransactionAmount,
			"payment_message":    status.PaymentMessage,
			"error_message":      status.ErrorMessage,
			"bank_reference":     bankReference,
		},
	})
}
