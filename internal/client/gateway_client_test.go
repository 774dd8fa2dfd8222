package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCollection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create-collect-request", r.URL.Path)
		assert.Equal(t, "Bearer api-key-1", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "school-1", body["school_id"])
		assert.Equal(t, "2000", body["amount"])
		assert.NotEmpty(t, body["sign"])

		json.NewEncoder(w).Encode(map[string]string{
			"collect_request_id":  "6808bc4888e4e3c149e757f1",
			"collect_request_url": "https://pay.example.com/6808bc4888e4e3c149e757f1",
		})
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	result, err := c.CreateCollection(context.Background(), "school-1", 2000, "https://merchant.example.com/cb", "signed.jwt")
	require.NoError(t, err)
	assert.Equal(t, "6808bc4888e4e3c149e757f1", result.CollectRequestID)
	assert.Equal(t, "https://pay.example.com/6808bc4888e4e3c149e757f1", result.PaymentLink)
}

func TestCreateCollection_InvalidSchool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Institute not found"})
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	_, err := c.CreateCollection(context.Background(), "bogus", 2000, "https://merchant.example.com/cb", "signed.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidSchool)
	assert.False(t, IsGatewayError(err))
}

func TestCreateCollection_GatewayErrorKeepsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "upstream psp unavailable"})
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	_, err := c.CreateCollection(context.Background(), "school-1", 2000, "https://merchant.example.com/cb", "signed.jwt")
	require.Error(t, err)
	require.True(t, IsGatewayError(err))

	var gatewayErr *domain.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusBadGateway, gatewayErr.StatusCode)
	assert.Equal(t, "upstream psp unavailable", gatewayErr.Message)
}

func TestCreateCollection_MissingCollectRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"collect_request_url": "https://pay.example.com/x"})
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	_, err := c.CreateCollection(context.Background(), "school-1", 2000, "https://merchant.example.com/cb", "signed.jwt")
	assert.True(t, IsGatewayError(err))
}

func TestCreateCollection_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 20*time.Millisecond)
	_, err := c.CreateCollection(context.Background(), "school-1", 2000, "https://merchant.example.com/cb", "signed.jwt")
	require.Error(t, err)
	assert.True(t, IsGatewayError(err))
}

func TestQueryStatus_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/collect-request/collect-1", r.URL.Path)
		assert.Equal(t, "school-1", r.URL.Query().Get("school_id"))
		assert.Equal(t, "signed.jwt", r.URL.Query().Get("sign"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "SUCCESS",
			"amount":       2000,
			"payment_mode": "upi",
			"details":      "upi/collect-1",
			"payment_time": "2025-04-23T08:14:21.945Z",
		})
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	result, err := c.QueryStatus(context.Background(), "collect-1", "school-1", "signed.jwt")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", result.Status)
	assert.Equal(t, 2000.0, result.AmountPaid)
	assert.Equal(t, "upi", result.PaymentMode)
	assert.Equal(t, "SUCCESS", result.Raw["status"])
}

func TestQueryStatus_TransactionAmountWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":             "SUCCESS",
			"amount":             2000,
			"transaction_amount": 2200,
		})
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	result, err := c.QueryStatus(context.Background(), "collect-1", "school-1", "signed.jwt")
	require.NoError(t, err)
	assert.Equal(t, 2200.0, result.AmountPaid)
}

func TestQueryStatus_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	c := NewHTTPGatewayClient(server.URL, "api-key-1", 5*time.Second)
	_, err := c.QueryStatus(context.Background(), "collect-1", "school-1", "signed.jwt")
	require.Error(t, err)

	var gatewayErr *domain.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "boom", gatewayErr.Message)
}
