package payment

import "context"

// Adapter defines the interface every payment gateway implements.
// Expected failures (provider decline, transport error, bad input) are
// returned as structured results, not errors. HandleCallback is the one
// exception: a signature that fails verification surfaces as
// ErrInvalidSignature so callers can treat it as a security event.
type Adapter interface {
	// Name returns the gateway identifier.
	Name() Gateway

	// CreatePayment initiates a new payment. All failures are captured
	// in the response; it never returns an error.
	CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse

	// HandleCallback verifies and normalizes a raw provider callback.
	// The payload is byte-faithful: the raw URL query string for
	// redirect-style gateways (VNPay, OnePay), the raw JSON body for
	// the others.
	HandleCallback(ctx context.Context, payload []byte) (*PaymentCallback, error)

	// QueryPaymentStatus asks the provider for the current state of a
	// transaction. Transport failures yield StatusFailed with the error
	// embedded in Raw.
	QueryPaymentStatus(ctx context.Context, transactionID string) *PaymentStatus

	// RefundPayment attempts a refund. Gateways without a refund API
	// report that explicitly instead of silently doing nothing.
	RefundPayment(ctx context.Context, req RefundRequest) *RefundResponse

	// VerifySignature checks a signature over the given fields.
	VerifySignature(data map[string]string, signature string) bool
}
