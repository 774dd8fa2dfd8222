package reconcile

import (
	"net/url"
	"testing"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var normalizeNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func TestNormalizeJSON_CollectStyle(t *testing.T) {
	payload := []byte(`{
		"collect_request_id": "6808bc4888e4e3c149e757f1",
		"status": "SUCCESS",
		"amount": 2000,
		"transaction_amount": 2200,
		"payment_mode": "upi",
		"details": "upi/6808bc4888e4e3c149e757f1",
		"bank_reference": "YESBNK222",
		"payment_message": "payment success",
		"payment_time": "2025-04-23T08:14:21.945Z"
	}`)

	update, shape, err := NormalizeJSON(payload, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, ShapeCollectStyle, shape)

	assert.Equal(t, "6808bc4888e4e3c149e757f1", update.CollectRequestID)
	assert.Equal(t, domain.StatusSuccess, update.RawStatus)
	assert.Equal(t, 2000.0, update.OrderAmount)
	assert.Equal(t, 2200.0, update.TransactionAmount)
	assert.True(t, update.HasTransactionAmount)
	assert.Equal(t, "upi", update.PaymentMode)
	assert.Equal(t, "YESBNK222", update.BankReference)
	assert.Equal(t, "payment success", update.PaymentMessage)
	assert.Equal(t, 2025, update.PaymentTime.Year())
}

func TestNormalizeJSON_CollectStyleStatusMapping(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.PaymentStatus
	}{
		{"SUCCESS", domain.StatusSuccess},
		{"success", domain.StatusSuccess},
		{"PENDING", domain.StatusPending},
		{"FAILED", domain.StatusFailed},
		{"FAILURE", domain.StatusFailed},
		{"USERDROPPED", domain.StatusPending},
		{"", domain.StatusPending},
	}

	for _, tc := range cases {
		payload := []byte(`{"collect_request_id": "abc123", "status": "` + tc.raw + `"}`)
		update, _, err := NormalizeJSON(payload, normalizeNow)
		require.NoError(t, err, "status %q", tc.raw)
		assert.Equal(t, tc.want, update.RawStatus, "status %q", tc.raw)
	}
}

func TestNormalizeJSON_OrderInfoStyle(t *testing.T) {
	payload := []byte(`{
		"status": 200,
		"order_info": {
			"order_id": "6808bc4888e4e3c149e757f1/txn_88221",
			"order_amount": 2000,
			"transaction_amount": 2200,
			"gateway": "PhonePe",
			"bank_reference": "YESBNK222",
			"status": "Success",
			"payment_mode": "upi",
			"payemnt_details": "success@ybl",
			"Payment_message": "payment success",
			"payment_time": "2025-04-23T08:14:21.945+00:00",
			"error_message": "NA"
		}
	}`)

	update, shape, err := NormalizeJSON(payload, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, ShapeOrderInfoStyle, shape)

	assert.Equal(t, "6808bc4888e4e3c149e757f1", update.CollectRequestID)
	assert.Equal(t, domain.StatusSuccess, update.RawStatus)
	assert.Equal(t, 2000.0, update.OrderAmount)
	assert.Equal(t, 2200.0, update.TransactionAmount)
	assert.True(t, update.HasTransactionAmount)
	assert.Equal(t, "success@ybl", update.PaymentDetails)
	assert.Equal(t, "payment success", update.PaymentMessage)
	assert.Empty(t, update.ErrorMessage)
}

func TestNormalizeJSON_OrderInfoStyleWithoutSlash(t *testing.T) {
	payload := []byte(`{"order_info": {"order_id": "6808bc4888e4e3c149e757f1", "status": "failed"}}`)

	update, shape, err := NormalizeJSON(payload, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, ShapeOrderInfoStyle, shape)
	assert.Equal(t, "6808bc4888e4e3c149e757f1", update.CollectRequestID)
	assert.Equal(t, domain.StatusFailed, update.RawStatus)
}

func TestNormalizeJSON_OrderInfoFreeTextStatusKeptVerbatim(t *testing.T) {
	payload := []byte(`{"order_info": {"order_id": "abc123", "status": "  Declined "}}`)

	update, _, err := NormalizeJSON(payload, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatus("declined"), update.RawStatus)
	assert.False(t, domain.ValidPaymentStatus(update.RawStatus))
}

func TestNormalizeJSON_BothShapesConverge(t *testing.T) {
	collectStyle := []byte(`{
		"collect_request_id": "conv-1",
		"status": "SUCCESS",
		"amount": 500,
		"transaction_amount": 500,
		"payment_mode": "upi",
		"bank_reference": "REF9",
		"payment_time": "2025-04-23T08:14:21Z"
	}`)
	orderInfoStyle := []byte(`{
		"order_info": {
			"order_id": "conv-1/txn",
			"order_amount": 500,
			"transaction_amount": 500,
			"payment_mode": "upi",
			"bank_reference": "REF9",
			"status": "success",
			"payment_time": "2025-04-23T08:14:21Z"
		}
	}`)

	a, _, err := NormalizeJSON(collectStyle, normalizeNow)
	require.NoError(t, err)
	b, _, err := NormalizeJSON(orderInfoStyle, normalizeNow)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalizeJSON_Defaults(t *testing.T) {
	payload := []byte(`{"collect_request_id": "abc123", "status": "PENDING"}`)

	update, _, err := NormalizeJSON(payload, normalizeNow)
	require.NoError(t, err)

	assert.Equal(t, "webhook-"+"1741948200", update.BankReference)
	assert.Equal(t, normalizeNow, update.PaymentTime)
	assert.False(t, update.HasTransactionAmount)
	assert.Zero(t, update.OrderAmount)
}

func TestNormalizeJSON_Unrecognized(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"something_else": true}`),
		[]byte(`{"order_info": {}}`),
		[]byte(`{"collect_request_id": ""}`),
		[]byte(`[]`),
	}

	for _, payload := range cases {
		update, _, err := NormalizeJSON(payload, normalizeNow)
		require.Error(t, err, "payload %s", payload)
		assert.ErrorIs(t, err, domain.ErrUnrecognizedPayload, "payload %s", payload)
		assert.Nil(t, update)
	}
}

func TestNormalizeQuery(t *testing.T) {
	values := url.Values{}
	values.Set("collect_request_id", "abc123")
	values.Set("status", "FAILED")
	values.Set("amount", "150.50")
	values.Set("payment_mode", "netbanking")

	update, shape, err := NormalizeQuery(values, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, ShapeCollectStyle, shape)
	assert.Equal(t, "abc123", update.CollectRequestID)
	assert.Equal(t, domain.StatusFailed, update.RawStatus)
	assert.Equal(t, 150.50, update.OrderAmount)
	assert.False(t, update.HasTransactionAmount)
}

func TestNormalizeQuery_MissingCollectRequestID(t *testing.T) {
	_, shape, err := NormalizeQuery(url.Values{}, normalizeNow)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedPayload)
	assert.Equal(t, ShapeUnknown, shape)
}

func TestParsePaymentTime(t *testing.T) {
	assert.True(t, parsePaymentTime("").IsZero())
	assert.True(t, parsePaymentTime("garbage").IsZero())
	assert.False(t, parsePaymentTime("2025-04-23T08:14:21.945Z").IsZero())
	assert.False(t, parsePaymentTime("2025-04-23T08:14:21+05:30").IsZero())
	assert.False(t, parsePaymentTime("2025-04-23 08:14:21").IsZero())
}
