package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
)

// instituteNotFoundMarker is the gateway's error text for an unknown school id.
// Matching it is how ErrInvalidSchool is distinguished from ordinary outages.
const instituteNotFoundMarker = "institute not found"

type HTTPGatewayClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewHTTPGatewayClient(baseURL, apiKey string, timeout time.Duration) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type createCollectRequest struct {
	SchoolID    string `json:"school_id"`
	Amount      string `json:"amount"`
	CallbackURL string `json:"callback_url"`
	Sign        string `json:"sign"`
}

type createCollectResponse struct {
	CollectRequestID  string `json:"collect_request_id"`
	CollectRequestURL string `json:"collect_request_url"`
}

type gatewayErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPGatewayClient) CreateCollection(ctx context.Context, schoolID string, amount float64, callbackURL, sign string) (*domain.CreateCollectionResult, error) {
	requestBodyBytes, err := json.Marshal(createCollectRequest{
		SchoolID:    schoolID,
		Amount:      fmt.Sprintf("%v", amount),
		CallbackURL: callbackURL,
		Sign:        sign,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/create-collect-request", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	response, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{StatusCode: 0, Message: err.Error()}
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: err.Error()}
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var out createCollectResponse
		if err := json.Unmarshal(responseBodyBytes, &out); err != nil {
			return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: "malformed gateway response: " + err.Error()}
		}
		if out.CollectRequestID == "" {
			return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: "gateway response missing collect_request_id"}
		}
		return &domain.CreateCollectionResult{
			CollectRequestID: out.CollectRequestID,
			PaymentLink:      out.CollectRequestURL,
		}, nil
	}

	message := decodeGatewayError(responseBodyBytes)
	if strings.Contains(strings.ToLower(message), instituteNotFoundMarker) {
		return nil, domain.ErrInvalidSchool
	}
	return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: message}
}

func (c *HTTPGatewayClient) QueryStatus(ctx context.Context, collectRequestID, schoolID, sign string) (*domain.GatewayStatusResult, error) {
	q := url.Values{}
	q.Set("school_id", schoolID)
	q.Set("sign", sign)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/collect-request/%s?%s", c.BaseURL, url.PathEscape(collectRequestID), q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	response, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{StatusCode: 0, Message: err.Error()}
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: err.Error()}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: decodeGatewayError(responseBodyBytes)}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(responseBodyBytes, &raw); err != nil {
		return nil, &domain.GatewayError{StatusCode: response.StatusCode, Message: "malformed gateway response: " + err.Error()}
	}

	result := &domain.GatewayStatusResult{Raw: raw}
	result.Status = stringField(raw, "status")
	result.AmountPaid = floatField(raw, "amount")
	if v := floatField(raw, "transaction_amount"); v != 0 {
		result.AmountPaid = v
	}
	result.PaymentMode = stringField(raw, "payment_mode")
	result.PaymentDetails = stringField(raw, "details")
	result.BankReference = stringField(raw, "bank_reference")
	result.PaymentMessage = stringField(raw, "payment_message")
	result.ErrorMessage = stringField(raw, "error_message")
	result.PaymentTime = stringField(raw, "payment_time")
	return result, nil
}

func decodeGatewayError(body []byte) string {
	var errorResponse gatewayErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err == nil {
		if errorResponse.Message != "" {
			return errorResponse.Message
		}
		if errorResponse.Error != "" {
			return errorResponse.Error
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return "gateway returned no error body"
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func floatField(raw map[string]interface{}, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

// IsGatewayError reports whether err originated from the gateway call itself.
func IsGatewayError(err error) bool {
	var ge *domain.GatewayError
	return errors.As(err, &ge)
}
