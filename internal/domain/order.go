package domain

import "time"

type PaymentStatus string

const (
	StatusSuccess PaymentStatus = "success"
	StatusPending PaymentStatus = "pending"
	StatusFailed  PaymentStatus = "failed"
)

// ValidPaymentStatus reports whether s is one of the three canonical statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case StatusSuccess, StatusPending, StatusFailed:
		return true
	}
	return false
}

type StudentInfo struct {
	Name      string
	StudentID string
	Email     string
}

type Order struct {
	ID            string
	SchoolID      string
	TrusteeID     string
	StudentInfo   StudentInfo
	GatewayName   string
	CustomOrderID string // gateway collect_request_id, sole correlation key
	PaymentLink   string
	OrderAmount   float64
	CreatedAt     time.Time
}

type OrderStatus struct {
	ID                string
	CollectID         string // Order.ID
	OrderAmount       float64
	TransactionAmount float64
	PaymentMode       string
	PaymentDetails    string // gateway-specific, stored opaquely
	BankReference     string
	Status            PaymentStatus
	PaymentMessage    string
	ErrorMessage      string
	PaymentTime       time.Time
}
