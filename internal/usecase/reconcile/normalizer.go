package reconcile

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
)

// Payload shapes the gateway is known to deliver. Detection is ordered:
// collect-style first, order-info style second. Adding a gateway format means
// adding a variant here, not branching deeper in the handler.
const (
	ShapeCollectStyle   = "collect_style"
	ShapeOrderInfoStyle = "order_info_style"
	ShapeUnknown        = "unknown"
)

type collectStylePayload struct {
	CollectRequestID  string   `json:"collect_request_id"`
	Status            string   `json:"status"`
	Amount            *float64 `json:"amount"`
	TransactionAmount *float64 `json:"transaction_amount"`
	PaymentMode       string   `json:"payment_mode"`
	Details           string   `json:"details"`
	BankReference     string   `json:"bank_reference"`
	PaymentMessage    string   `json:"payment_message"`
	ErrorMessage      string   `json:"error_message"`
	PaymentTime       string   `json:"payment_time"`
}

type orderInfoEnvelope struct {
	OrderInfo *orderInfoPayload `json:"order_info"`
}

type orderInfoPayload struct {
	OrderID           string   `json:"order_id"` // "collectRequestId/transactionId"
	OrderAmount       *float64 `json:"order_amount"`
	TransactionAmount *float64 `json:"transaction_amount"`
	Gateway           string   `json:"gateway"`
	BankReference     string   `json:"bank_reference"`
	Status            string   `json:"status"`
	PaymentMode       string   `json:"payment_mode"`
	PaymentDetails    string   `json:"payment_details"`
	// The gateway misspells this key in production payloads.
	PaymentDetailsTypo string `json:"payemnt_details"`
	// Matches both "payment_message" and the gateway's "Payment_message";
	// encoding/json field matching is case-insensitive.
	PaymentMessage string `json:"payment_message"`
	PaymentTime    string `json:"payment_time"`
	ErrorMessage   string `json:"error_message"`
}

// NormalizeJSON collapses a webhook body into the canonical StatusUpdate.
// The returned shape names which variant matched, for metrics and the audit
// message. ErrUnrecognizedPayload means no variant's discriminator was found
// and reconciliation must not be attempted.
func NormalizeJSON(payload []byte, now time.Time) (*domain.StatusUpdate, string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, ShapeUnknown, fmt.Errorf("%w: %v", domain.ErrUnrecognizedPayload, err)
	}

	if raw, ok := probe["collect_request_id"]; ok && len(raw) > 0 {
		var body collectStylePayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, ShapeCollectStyle, fmt.Errorf("%w: %v", domain.ErrUnrecognizedPayload, err)
		}
		if body.CollectRequestID == "" {
			return nil, ShapeCollectStyle, domain.ErrUnrecognizedPayload
		}
		return fromCollectStyle(&body, now), ShapeCollectStyle, nil
	}

	if _, ok := probe["order_info"]; ok {
		var envelope orderInfoEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil || envelope.OrderInfo == nil || envelope.OrderInfo.OrderID == "" {
			return nil, ShapeOrderInfoStyle, domain.ErrUnrecognizedPayload
		}
		return fromOrderInfoStyle(envelope.OrderInfo, now), ShapeOrderInfoStyle, nil
	}

	return nil, ShapeUnknown, domain.ErrUnrecognizedPayload
}

// NormalizeQuery handles the GET-query variant, which carries the
// collect-style fields as query parameters.
func NormalizeQuery(values url.Values, now time.Time) (*domain.StatusUpdate, string, error) {
	collectRequestID := values.Get("collect_request_id")
	if collectRequestID == "" {
		return nil, ShapeUnknown, domain.ErrUnrecognizedPayload
	}

	body := collectStylePayload{
		CollectRequestID: collectRequestID,
		Status:           values.Get("status"),
		PaymentMode:      values.Get("payment_mode"),
		Details:          values.Get("details"),
		BankReference:    values.Get("bank_reference"),
		PaymentMessage:   values.Get("payment_message"),
		ErrorMessage:     values.Get("error_message"),
		PaymentTime:      values.Get("payment_time"),
	}
	if raw := values.Get("amount"); raw != "" {
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			body.Amount = &amount
		}
	}
	if raw := values.Get("transaction_amount"); raw != "" {
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			body.TransactionAmount = &amount
		}
	}
	return fromCollectStyle(&body, now), ShapeCollectStyle, nil
}

func fromCollectStyle(body *collectStylePayload, now time.Time) *domain.StatusUpdate {
	update := &domain.StatusUpdate{
		CollectRequestID: body.CollectRequestID,
		RawStatus:        mapEnumStatus(body.Status),
		PaymentMode:      body.PaymentMode,
		PaymentDetails:   body.Details,
		BankReference:    body.BankReference,
		PaymentMessage:   body.PaymentMessage,
		ErrorMessage:     body.ErrorMessage,
		PaymentTime:      parsePaymentTime(body.PaymentTime),
	}
	if body.Amount != nil {
		update.OrderAmount = *body.Amount
	}
	if body.TransactionAmount != nil {
		update.TransactionAmount = *body.TransactionAmount
		update.HasTransactionAmount = true
	}
	applyDefaults(update, now)
	return update
}

func fromOrderInfoStyle(body *orderInfoPayload, now time.Time) *domain.StatusUpdate {
	collectRequestID := body.OrderID
	if idx := strings.Index(body.OrderID, "/"); idx >= 0 {
		collectRequestID = body.OrderID[:idx]
	}

	details := body.PaymentDetails
	if details == "" {
		details = body.PaymentDetailsTypo
	}

	update := &domain.StatusUpdate{
		CollectRequestID: collectRequestID,
		// Free-text status, lower-cased; the engine rejects anything that
		// is not one of the three canonical values.
		RawStatus:      domain.PaymentStatus(strings.ToLower(strings.TrimSpace(body.Status))),
		PaymentMode:    body.PaymentMode,
		PaymentDetails: details,
		BankReference:  body.BankReference,
		PaymentMessage: body.PaymentMessage,
		ErrorMessage:   normalizeErrorMessage(body.ErrorMessage),
		PaymentTime:    parsePaymentTime(body.PaymentTime),
	}
	if body.OrderAmount != nil {
		update.OrderAmount = *body.OrderAmount
	}
	if body.TransactionAmount != nil {
		update.TransactionAmount = *body.TransactionAmount
		update.HasTransactionAmount = true
	}
	applyDefaults(update, now)
	return update
}

// mapEnumStatus maps the collect-style status enum. FAILED maps to failed in
// both payload shapes; unknown values degrade to pending so a new gateway
// status never fabricates a terminal outcome.
func mapEnumStatus(raw string) domain.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCESS":
		return domain.StatusSuccess
	case "PENDING":
		return domain.StatusPending
	case "FAILED", "FAILURE":
		return domain.StatusFailed
	default:
		return domain.StatusPending
	}
}

func applyDefaults(update *domain.StatusUpdate, now time.Time) {
	if update.BankReference == "" {
		update.BankReference = fmt.Sprintf("webhook-%d", now.Unix())
	}
	if update.PaymentTime.IsZero() {
		update.PaymentTime = now
	}
}

func parsePaymentTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// normalizeErrorMessage drops the gateway's "NA" placeholder.
func normalizeErrorMessage(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "NA") {
		return ""
	}
	return raw
}
