package domain

import "errors"

var (
	ErrInvalidSchool       = errors.New("school is not recognized by the gateway")
	ErrOrderNotFound       = errors.New("order not found")
	ErrStatusNotFound      = errors.New("no transaction found for this order")
	ErrInvalidStatus       = errors.New("status is not one of success, pending, failed")
	ErrUnrecognizedPayload = errors.New("webhook payload matches no known shape")
	ErrGatewayFailure      = errors.New("gateway request failed")
	ErrValidationFailed    = errors.New("invalid request input")
	ErrNotAuthorized       = errors.New("caller is not allowed to access this resource")
)
