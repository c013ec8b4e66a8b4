package repository

import (
	"time"

	"gorm.io/gorm"

	"tripgo/internal/models"
)

// PaymentRepository handles payment transaction and webhook log
// database operations.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindAll returns transactions with pagination and search.
func (r *PaymentRepository) FindAll(limit, page int, query string) ([]models.PaymentTransaction, int64, error) {
	var txns []models.PaymentTransaction
	var total int64

	db := r.db.Model(&models.PaymentTransaction{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("transaction_id LIKE ? OR gateway LIKE ? OR status LIKE ?",
			search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// FindByTransactionID returns a transaction by its core-issued id.
func (r *PaymentRepository) FindByTransactionID(transactionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.Where("transaction_id = ?", transactionID).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindByBookingID returns transactions for a booking, newest first.
func (r *PaymentRepository) FindByBookingID(bookingID uint) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.db.Where("booking_id = ?", bookingID).Order("id DESC").Find(&txns).Error
	return txns, err
}

// Create creates a new payment transaction.
func (r *PaymentRepository) Create(txn *models.PaymentTransaction) error {
	return r.db.Create(txn).Error
}

// UpdateByTransactionID updates a transaction by its core-issued id.
func (r *PaymentRepository) UpdateByTransactionID(transactionID string, updates map[string]interface{}) error {
	return r.db.Model(&models.PaymentTransaction{}).
		Where("transaction_id = ?", transactionID).Updates(updates).Error
}

// FindByStatus returns transactions in the given status.
func (r *PaymentRepository) FindByStatus(status string) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.db.Where("status = ?", status).Find(&txns).Error
	return txns, err
}

// FindPendingOlderThan returns pending transactions created before the cutoff.
func (r *PaymentRepository) FindPendingOlderThan(cutoff time.Time) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.db.Where("status = ? AND created_at < ?", "pending", cutoff).Find(&txns).Error
	return txns, err
}

// LogWebhook records a raw provider callback.
func (r *PaymentRepository) LogWebhook(log *models.PaymentWebhookLog) error {
	return r.db.Create(log).Error
}

// FindWebhooksByTransactionID returns the callback audit trail for a
// transaction, oldest first.
func (r *PaymentRepository) FindWebhooksByTransactionID(transactionID string) ([]models.PaymentWebhookLog, error) {
	var logs []models.PaymentWebhookLog
	err := r.db.Where("transaction_id = ?", transactionID).Order("id ASC").Find(&logs).Error
	return logs, err
}
