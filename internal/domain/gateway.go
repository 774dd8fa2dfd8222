package domain

import (
	"context"
	"fmt"
)

// GatewayError carries the gateway's own message verbatim for diagnostics.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

type CreateCollectionResult struct {
	CollectRequestID string
	PaymentLink      string
}

// GatewayStatusResult is the gateway's answer to a synchronous status query,
// returned to callers as-is and fed to the reconciliation engine on success.
type GatewayStatusResult struct {
	Status         string
	AmountPaid     float64
	PaymentMode    string
	PaymentDetails string
	BankReference  string
	PaymentMessage string
	ErrorMessage   string
	PaymentTime    string
	Raw            map[string]interface{}
}

type GatewayClient interface {
	CreateCollection(ctx context.Context, schoolID string, amount float64, callbackURL, sign string) (*CreateCollectionResult, error)
	QueryStatus(ctx context.Context, collectRequestID, schoolID, sign string) (*GatewayStatusResult, error)
}
