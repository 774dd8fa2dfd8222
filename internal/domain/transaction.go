package domain

import (
	"context"
	"time"
)

// Transaction is the read-side join of an Order and its OrderStatus used by
// the reporting endpoints. It is never written directly.
type Transaction struct {
	StatusID          string
	CollectID         string
	SchoolID          string
	Gateway           string
	CustomOrderID     string
	StudentInfo       StudentInfo
	OrderAmount       float64
	TransactionAmount float64
	Status            PaymentStatus
	PaymentMode       string
	BankReference     string
	PaymentTime       time.Time
}

type TransactionFilters struct {
	Status    PaymentStatus
	SchoolID  string
	TrusteeID string // non-empty for trustee-scoped reads
	Page      int
	Limit     int
}

type StatusSummary struct {
	Status      PaymentStatus
	Count       int64
	TotalAmount float64
}

type TransactionRepository interface {
	ListTransactions(ctx context.Context, filters TransactionFilters) ([]*Transaction, int64, error)
	Summarize(ctx context.Context, trusteeID string) ([]StatusSummary, error)
	TrusteeHasSchoolAccess(ctx context.Context, trusteeID, schoolID string) (bool, error)
}
