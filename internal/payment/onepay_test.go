package payment

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOnePay(t *testing.T) *OnePayAdapter {
	t.Helper()
	adapter, err := NewOnePayAdapter(OnePayConfig{
		Merchant:   "TESTONEPAY",
		AccessCode: "6BEB2546",
		HashSecret: "ONEPAYHASHSECRET",
		PayURL:     "https://mtf.example.com/paygate/vpcpay.op",
		QueryURL:   "https://mtf.example.com/paygate/vpcdps.op",
		ReturnURL:  "https://merchant.example.com/payment/onepay/return",
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestNewOnePayAdapter_MissingConfig(t *testing.T) {
	_, err := NewOnePayAdapter(OnePayConfig{Merchant: "m", AccessCode: "a", PayURL: "p"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash secret")
}

func TestOnePay_CreatePayment(t *testing.T) {
	adapter := newTestOnePay(t)

	resp := adapter.CreatePayment(context.Background(), PaymentRequest{
		BookingID:   "B1",
		Amount:      150000,
		Currency:    "VND",
		Description: "Hotel booking B1",
		ClientIP:    "203.0.113.10",
	})

	require.True(t, resp.Success, resp.Error)
	assert.True(t, strings.HasPrefix(resp.PaymentURL, "https://mtf.example.com/paygate/vpcpay.op?"))

	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "15000000", q.Get("vpc_Amount"))
	assert.Equal(t, "TESTONEPAY", q.Get("vpc_Merchant"))
	assert.Equal(t, resp.TransactionID, q.Get("vpc_MerchTxnRef"))

	fields := map[string]string{}
	for k := range q {
		fields[k] = q.Get(k)
	}
	assert.True(t, adapter.VerifySignature(fields, q.Get("vpc_SecureHash")))
}

func TestOnePay_HashSelectsOnlyPrefixedFields(t *testing.T) {
	adapter := newTestOnePay(t)

	base := map[string]string{
		"vpc_Merchant": "TESTONEPAY",
		"vpc_Amount":   "15000000",
		"user_Note":    "gift",
	}
	sig := adapter.hash(base)

	// Fields outside vpc_/user_ must not influence the hash, nor must
	// the hash fields themselves.
	noisy := map[string]string{
		"vpc_Merchant":       "TESTONEPAY",
		"vpc_Amount":         "15000000",
		"user_Note":          "gift",
		"foo":                "bar",
		"AgainSafe":          "x",
		"vpc_SecureHash":     "AAAA",
		"vpc_SecureHashType": "SHA256",
	}
	assert.Equal(t, sig, adapter.hash(noisy))

	// A vpc_ field does.
	changed := map[string]string{
		"vpc_Merchant": "TESTONEPAY",
		"vpc_Amount":   "15000001",
		"user_Note":    "gift",
	}
	assert.NotEqual(t, sig, adapter.hash(changed))
}

func TestOnePay_VerifySignature_CaseInsensitive(t *testing.T) {
	adapter := newTestOnePay(t)

	fields := map[string]string{"vpc_Merchant": "TESTONEPAY", "vpc_Amount": "15000000"}
	upper := adapter.hash(fields)

	assert.True(t, adapter.VerifySignature(fields, upper))
	assert.True(t, adapter.VerifySignature(fields, strings.ToLower(upper)))
	assert.False(t, adapter.VerifySignature(fields, ""))
	assert.False(t, adapter.VerifySignature(fields, strings.Repeat("0", 64)))
}

func onePayCallbackPayload(a *OnePayAdapter, fields map[string]string) []byte {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("vpc_SecureHash", a.hash(fields))
	return []byte(values.Encode())
}

func TestOnePay_HandleCallback(t *testing.T) {
	adapter := newTestOnePay(t)

	fields := map[string]string{
		"vpc_MerchTxnRef":     "ONEPAY_1700000000000_a1b2c3d4",
		"vpc_TransactionNo":   "60023",
		"vpc_Amount":          "15000000",
		"vpc_TxnResponseCode": "0",
		"vpc_Currency":        "VND",
	}

	cb, err := adapter.HandleCallback(context.Background(), onePayCallbackPayload(adapter, fields))
	require.NoError(t, err)

	assert.True(t, cb.Success)
	assert.Equal(t, "ONEPAY_1700000000000_a1b2c3d4", cb.TransactionID)
	assert.Equal(t, "60023", cb.ProviderOrderID)
	assert.Equal(t, int64(150000), cb.Amount)
	assert.Equal(t, "Giao dịch thành công", cb.Message)
}

func TestOnePay_HandleCallback_TamperedAmount(t *testing.T) {
	adapter := newTestOnePay(t)

	fields := map[string]string{
		"vpc_MerchTxnRef":     "ONEPAY_1_a",
		"vpc_Amount":          "15000000",
		"vpc_TxnResponseCode": "0",
	}
	payload := string(onePayCallbackPayload(adapter, fields))
	tampered := strings.Replace(payload, "15000000", "25000000", 1)

	_, err := adapter.HandleCallback(context.Background(), []byte(tampered))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestOnePay_StatusMapping(t *testing.T) {
	cases := map[string]Status{
		"0":   StatusCompleted,
		"99":  StatusCancelled,
		"1":   StatusFailed,
		"2":   StatusFailed,
		"3":   StatusFailed,
		"300": StatusPending,
		"":    StatusPending,
	}
	for code, want := range cases {
		assert.Equal(t, want, mapOnePayStatus(code), "code %q", code)
	}
}

// countingTransport fails every request and counts how many were attempted.
type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("unexpected outbound request")
}

func TestOnePay_RefundUnsupported(t *testing.T) {
	adapter := newTestOnePay(t)
	transport := &countingTransport{}
	adapter.client.WithTransport(transport)

	resp := adapter.RefundPayment(context.Background(), RefundRequest{
		TransactionID: "ONEPAY_1_a",
		Amount:        150000,
	})

	assert.False(t, resp.Success)
	assert.Zero(t, resp.RefundAmount)
	assert.Contains(t, resp.Error, ErrRefundUnsupported.Error())
	assert.Zero(t, transport.calls)
}
