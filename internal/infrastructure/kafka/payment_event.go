package kafka

type PaymentEvent struct {
	EventID           string  `json:"event_id"`
	OrderID           string  `json:"order_id"`
	CollectRequestID  string  `json:"collect_request_id"`
	SchoolID          string  `json:"school_id"`
	Status            string  `json:"status"`
	OrderAmount       float64 `json:"order_amount"`
	TransactionAmount float64 `json:"transaction_amount"`
	PaymentMode       string  `json:"payment_mode"`
}
