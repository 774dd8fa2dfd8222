package domain

import "time"

// StatusUpdate is the canonical form every gateway notification is reduced to
// before reconciliation, regardless of which wire shape delivered it.
type StatusUpdate struct {
	CollectRequestID     string
	RawStatus            PaymentStatus
	OrderAmount          float64
	TransactionAmount    float64
	HasTransactionAmount bool
	PaymentMode          string
	PaymentDetails       string
	BankReference        string
	PaymentMessage       string
	ErrorMessage         string
	PaymentTime          time.Time
}

type OutcomeKind string

const (
	OutcomeApplied       OutcomeKind = "applied"
	OutcomeSuppressed    OutcomeKind = "suppressed"
	OutcomeOrderNotFound OutcomeKind = "order_not_found"
	OutcomeInvalidStatus OutcomeKind = "invalid_status"
)

// ReconciliationOutcome classifies what a single Apply did to the store.
type ReconciliationOutcome struct {
	Kind    OutcomeKind
	Reason  string
	OrderID string
}

func (o ReconciliationOutcome) Accepted() bool {
	return o.Kind == OutcomeApplied
}
