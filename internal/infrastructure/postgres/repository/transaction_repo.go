package repository

import (
	"context"
	"time"

	"github.com/edupay-labs/school-payment-service/internal/domain"
	"github.com/edupay-labs/school-payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

type transactionRow struct {
	StatusID          string
	CollectID         string
	SchoolID          string
	GatewayName       string
	CustomOrderID     string
	StudentName       string
	StudentID         string
	StudentEmail      string
	OrderAmount       float64
	TransactionAmount float64
	Status            string
	PaymentMode       string
	BankReference     string
	PaymentTime       time.Time
}

const transactionSelect = `order_status_models.id AS status_id,
order_status_models.collect_id AS collect_id,
order_models.school_id AS school_id,
order_models.gateway_name AS gateway_name,
order_models.custom_order_id AS custom_order_id,
order_models.student_name AS student_name,
order_models.student_id AS student_id,
order_models.student_email AS student_email,
order_status_models.order_amount AS order_amount,
order_status_models.transaction_amount AS transaction_amount,
order_status_models.status AS status,
order_status_models.payment_mode AS payment_mode,
order_status_models.bank_reference AS bank_reference,
order_status_models.payment_time AS payment_time`

func (r *DefaultTransactionRepository) ListTransactions(ctx context.Context, filters domain.TransactionFilters) ([]*domain.Transaction, int64, error) {
	baseQuery := r.DB.WithContext(ctx).
		Model(&models.OrderStatusModel{}).
		Joins("JOIN order_models ON order_models.id = order_status_models.collect_id")

	if filters.Status != "" {
		baseQuery = baseQuery.Where("order_status_models.status = ?", string(filters.Status))
	}
	if filters.SchoolID != "" {
		baseQuery = baseQuery.Where("order_models.school_id = ?", filters.SchoolID)
	}
	if filters.TrusteeID != "" {
		baseQuery = baseQuery.Where("order_models.trustee_id = ?", filters.TrusteeID)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := baseQuery.Select(transactionSelect).Order("order_status_models.payment_time DESC")
	if filters.Limit > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filters.Limit).Limit(filters.Limit)
	}

	var rows []transactionRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, &domain.Transaction{
			StatusID:      row.StatusID,
			CollectID:     row.CollectID,
			SchoolID:      row.SchoolID,
			Gateway:       row.GatewayName,
			CustomOrderID: row.CustomOrderID,
			StudentInfo: domain.StudentInfo{
				Name:      row.StudentName,
				StudentID: row.StudentID,
				Email:     row.StudentEmail,
			},
			OrderAmount:       row.OrderAmount,
			TransactionAmount: row.TransactionAmount,
			Status:            domain.PaymentStatus(row.Status),
			PaymentMode:       row.PaymentMode,
			BankReference:     row.BankReference,
			PaymentTime:       row.PaymentTime,
		})
	}
	return transactions, total, nil
}

func (r *DefaultTransactionRepository) Summarize(ctx context.Context, trusteeID string) ([]domain.StatusSummary, error) {
	query := r.DB.WithContext(ctx).
		Model(&models.OrderStatusModel{}).
		Joins("JOIN order_models ON order_models.id = order_status_models.collect_id")
	if trusteeID != "" {
		query = query.Where("order_models.trustee_id = ?", trusteeID)
	}

	type summaryRow struct {
		Status      string
		Count       int64
		TotalAmount float64
	}
	var rows []summaryRow
	err := query.
		Select("order_status_models.status AS status, COUNT(*) AS count, COALESCE(SUM(order_status_models.transaction_amount), 0) AS total_amount").
		Group("order_status_models.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.StatusSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.StatusSummary{
			Status:      domain.PaymentStatus(row.Status),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		})
	}
	return summaries, nil
}

func (r *DefaultTransactionRepository) TrusteeHasSchoolAccess(ctx context.Context, trusteeID, schoolID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("trustee_id = ? AND school_id = ?", trusteeID, schoolID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
