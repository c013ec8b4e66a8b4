package models

import "time"

// PaymentTransaction maps to the `payment_transactions` table. Keyed by
// the transaction id issued when the payment was created; provider ids
// arrive later through callbacks and queries.
type PaymentTransaction struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TransactionID    string    `gorm:"column:transaction_id;size:100;uniqueIndex" json:"transaction_id"`
	BookingID        uint      `gorm:"column:booking_id;index" json:"booking_id"`
	Gateway          string    `gorm:"column:gateway;size:50" json:"gateway"`
	Amount           int64     `gorm:"column:amount" json:"amount"`
	Currency         string    `gorm:"column:currency;size:10;default:'VND'" json:"currency"`
	Status           string    `gorm:"column:status;size:50;default:'pending'" json:"status"`
	ProviderOrderID  string    `gorm:"column:provider_order_id;size:200" json:"provider_order_id"`
	ProviderRefundID string    `gorm:"column:provider_refund_id;size:200" json:"provider_refund_id"`
	PaymentURL       string    `gorm:"column:payment_url;size:2000" json:"payment_url"`
	ResponseCode     string    `gorm:"column:response_code;size:50" json:"response_code"`
	RawResponse      string    `gorm:"column:raw_response;type:json" json:"raw_response"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// PaymentWebhookLog maps to the `payment_webhook_logs` table. Every raw
// provider callback is recorded before interpretation, for audit.
type PaymentWebhookLog struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Gateway       string    `gorm:"column:gateway;size:50" json:"gateway"`
	TransactionID string    `gorm:"column:transaction_id;size:100;index" json:"transaction_id"`
	Payload       string    `gorm:"column:payload;type:text" json:"payload"`
	SignatureOK   bool      `gorm:"column:signature_ok" json:"signature_ok"`
	RemoteIP      string    `gorm:"column:remote_ip;size:100" json:"remote_ip"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PaymentWebhookLog) TableName() string {
	return "payment_webhook_logs"
}
