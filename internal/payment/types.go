package payment

import (
	"errors"
	"fmt"
)

// Gateway identifies a configured payment provider.
type Gateway string

const (
	GatewayVNPay   Gateway = "vnpay"
	GatewayMoMo    Gateway = "momo"
	GatewayZaloPay Gateway = "zalopay"
	GatewayOnePay  Gateway = "onepay"
)

// AllGateways lists every gateway the platform knows about, whether or
// not it is configured.
func AllGateways() []Gateway {
	return []Gateway{GatewayVNPay, GatewayMoMo, GatewayZaloPay, GatewayOnePay}
}

// ParseGateway converts a string into a known Gateway identifier.
func ParseGateway(s string) (Gateway, bool) {
	switch Gateway(s) {
	case GatewayVNPay, GatewayMoMo, GatewayZaloPay, GatewayOnePay:
		return Gateway(s), true
	}
	return "", false
}

// Status is the normalized payment state shared by all gateways.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// PaymentRequest contains everything needed to initiate a payment.
// Amount is an integer in the base currency unit (VND has no decimals).
type PaymentRequest struct {
	BookingID     string `json:"booking_id"`
	UserID        string `json:"user_id,omitempty"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	ReturnURL     string `json:"return_url,omitempty"`
	CancelURL     string `json:"cancel_url,omitempty"`
	BankCode      string `json:"bank_code,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
}

// Validate checks the request invariants before any gateway work happens.
func (r *PaymentRequest) Validate() error {
	if r.BookingID == "" {
		return errors.New("booking id is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if r.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// PaymentResponse is the result of a payment creation. A gateway may
// populate any combination of PaymentURL, QRCode and Deeplink.
type PaymentResponse struct {
	Success         bool   `json:"success"`
	TransactionID   string `json:"transaction_id,omitempty"`
	ProviderOrderID string `json:"provider_order_id,omitempty"`
	PaymentURL      string `json:"payment_url,omitempty"`
	QRCode          string `json:"qr_code,omitempty"`
	Deeplink        string `json:"deeplink,omitempty"`
	Error           string `json:"error,omitempty"`
}

// PaymentCallback is the normalized result of a verified provider
// callback. Raw keeps the untouched payload fields for audit.
type PaymentCallback struct {
	Success         bool              `json:"success"`
	TransactionID   string            `json:"transaction_id"`
	ProviderOrderID string            `json:"provider_order_id,omitempty"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	ResponseCode    string            `json:"response_code"`
	Message         string            `json:"message,omitempty"`
	Signature       string            `json:"signature,omitempty"`
	Raw             map[string]string `json:"raw,omitempty"`
}

// PaymentStatus is the result of an explicit status query. Raw carries
// the provider response (or the transport error) for debugging.
type PaymentStatus struct {
	TransactionID string `json:"transaction_id"`
	Status        Status `json:"status"`
	Amount        int64  `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Raw           string `json:"raw,omitempty"`
}

// RefundRequest asks a gateway to return money for a captured payment.
// ProviderOrderID is the provider's own transaction id; MoMo requires it.
type RefundRequest struct {
	TransactionID   string `json:"transaction_id"`
	ProviderOrderID string `json:"provider_order_id,omitempty"`
	Amount          int64  `json:"amount"`
	Reason          string `json:"reason,omitempty"`
}

// RefundResponse is the result of a refund attempt.
type RefundResponse struct {
	Success          bool   `json:"success"`
	ProviderRefundID string `json:"provider_refund_id,omitempty"`
	RefundAmount     int64  `json:"refund_amount"`
	Error            string `json:"error,omitempty"`
}

// ErrInvalidSignature marks a callback whose cryptographic signature did
// not verify. It indicates tampering or a key mismatch and must never be
// conflated with an ordinary declined payment.
var ErrInvalidSignature = errors.New("invalid callback signature")

// ErrRefundUnsupported marks a gateway without a programmatic refund API.
var ErrRefundUnsupported = errors.New("refund not supported by this gateway, manual process required")

// UnavailableGatewayError reports a request for a gateway that has no
// registered adapter, together with the gateways a caller can fall back to.
type UnavailableGatewayError struct {
	Gateway   Gateway
	Available []Gateway
}

func (e *UnavailableGatewayError) Error() string {
	return fmt.Sprintf("payment gateway %q is not configured (available: %v)", e.Gateway, e.Available)
}
