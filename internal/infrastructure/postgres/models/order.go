package models

import "time"

type OrderModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	SchoolID      string `gorm:"index:idx_school_id"`
	TrusteeID     string `gorm:"index:idx_trustee_id"`
	StudentName   string
	StudentID     string
	StudentEmail  string
	GatewayName   string
	CustomOrderID string `gorm:"uniqueIndex:idx_custom_order_id"`
	PaymentLink   string
	OrderAmount   float64
	CreatedAt     time.Time `gorm:"index:idx_created_at"`
}
