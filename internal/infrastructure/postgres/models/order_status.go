package models

import "time"

type OrderStatusModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	CollectID         string `gorm:"type:uuid;uniqueIndex:idx_status_collect_id"`
	OrderAmount       float64
	TransactionAmount float64
	PaymentMode       string
	PaymentDetails    string
	BankReference     string
	Status            string `gorm:"index:idx_status"`
	PaymentMessage    string
	ErrorMessage      string
	PaymentTime       time.Time `gorm:"index:idx_payment_time"`
}
