package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMoMo(t *testing.T, endpoint string) *MoMoAdapter {
	t.Helper()
	if endpoint == "" {
		endpoint = "https://payment.example.com"
	}
	adapter, err := NewMoMoAdapter(MoMoConfig{
		PartnerCode: "MOMOTEST",
		AccessKey:   "accesskey123",
		SecretKey:   "momosecret456",
		Endpoint:    endpoint,
		RedirectURL: "https://merchant.example.com/payment/momo/return",
		IPNURL:      "https://merchant.example.com/payment/momo/ipn",
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func momoCallbackSignature(a *MoMoAdapter, f map[string]string) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%s&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%s&resultCode=%s&transId=%s",
		a.cfg.AccessKey, f["amount"], f["extraData"], f["message"], f["orderId"],
		f["orderInfo"], f["orderType"], f["partnerCode"], f["payType"],
		f["requestId"], f["responseTime"], f["resultCode"], f["transId"],
	)
	return hmacSHA256Hex(a.cfg.SecretKey, raw)
}

func TestNewMoMoAdapter_MissingConfig(t *testing.T) {
	_, err := NewMoMoAdapter(MoMoConfig{AccessKey: "a", SecretKey: "s", Endpoint: "e"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partner code")
}

func TestMoMo_SignatureIndependentOfConstructionPath(t *testing.T) {
	adapter := newTestMoMo(t, "")

	// Literal map.
	literal := map[string]string{
		"partnerCode": "MOMOTEST", "orderId": "MOMO_1_a", "requestId": "r1",
		"amount": "150000", "orderInfo": "Tour B1", "orderType": "momo_wallet",
		"transId": "2147483647", "resultCode": "0", "message": "Successful.",
		"payType": "qr", "responseTime": "1700000000000", "extraData": "",
	}

	// Programmatically built in a different insertion order.
	built := make(map[string]string)
	for _, k := range []string{"extraData", "responseTime", "payType", "message",
		"resultCode", "transId", "orderType", "orderInfo", "amount", "requestId",
		"orderId", "partnerCode"} {
		built[k] = literal[k]
	}

	sig := momoCallbackSignature(adapter, literal)
	assert.Equal(t, sig, momoCallbackSignature(adapter, built))
	assert.True(t, adapter.VerifySignature(literal, sig))
	assert.True(t, adapter.VerifySignature(built, sig))
}

func TestMoMo_CreatePayment(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/gateway/api/create", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 0,
			"message":    "Successful.",
			"payUrl":     "https://payment.example.com/pay/abc",
			"deeplink":   "momo://app?x=1",
			"qrCodeUrl":  "https://payment.example.com/qr/abc",
		})
	}))
	defer server.Close()

	adapter := newTestMoMo(t, server.URL)
	resp := adapter.CreatePayment(context.Background(), PaymentRequest{
		BookingID:   "B1",
		Amount:      150000,
		Currency:    "VND",
		Description: "Tour booking B1",
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "https://payment.example.com/pay/abc", resp.PaymentURL)
	assert.Equal(t, "https://payment.example.com/qr/abc", resp.QRCode)
	assert.Equal(t, "momo://app?x=1", resp.Deeplink)
	assert.NotEmpty(t, resp.TransactionID)

	// The posted signature must match MoMo's create template.
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%.0f&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		adapter.cfg.AccessKey, gotBody["amount"], gotBody["extraData"], gotBody["ipnUrl"],
		gotBody["orderId"], gotBody["orderInfo"], gotBody["partnerCode"],
		gotBody["redirectUrl"], gotBody["requestId"], gotBody["requestType"],
	)
	assert.Equal(t, hmacSHA256Hex(adapter.cfg.SecretKey, raw), gotBody["signature"])
}

func TestMoMo_CreatePayment_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 41,
			"message":    "Duplicated orderId",
		})
	}))
	defer server.Close()

	adapter := newTestMoMo(t, server.URL)
	resp := adapter.CreatePayment(context.Background(), PaymentRequest{
		BookingID: "B1", Amount: 150000, Currency: "VND",
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "41")
}

func TestMoMo_HandleCallback(t *testing.T) {
	adapter := newTestMoMo(t, "")

	fields := map[string]string{
		"partnerCode": "MOMOTEST", "orderId": "MOMO_1700000000000_a1b2c3d4",
		"requestId": "r1", "amount": "150000", "orderInfo": "Tour B1",
		"orderType": "momo_wallet", "transId": "2147483647", "resultCode": "0",
		"message": "Successful.", "payType": "qr",
		"responseTime": "1700000000000", "extraData": "",
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"partnerCode": fields["partnerCode"], "orderId": fields["orderId"],
		"requestId": fields["requestId"], "amount": 150000,
		"orderInfo": fields["orderInfo"], "orderType": fields["orderType"],
		"transId": 2147483647, "resultCode": 0, "message": fields["message"],
		"payType": fields["payType"], "responseTime": 1700000000000,
		"extraData": "", "signature": momoCallbackSignature(adapter, fields),
	})

	cb, err := adapter.HandleCallback(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, cb.Success)
	assert.Equal(t, "MOMO_1700000000000_a1b2c3d4", cb.TransactionID)
	assert.Equal(t, "2147483647", cb.ProviderOrderID)
	assert.Equal(t, int64(150000), cb.Amount)

	// A tampered amount must fail signature verification.
	tampered, _ := json.Marshal(map[string]interface{}{
		"partnerCode": fields["partnerCode"], "orderId": fields["orderId"],
		"requestId": fields["requestId"], "amount": 999999,
		"orderInfo": fields["orderInfo"], "orderType": fields["orderType"],
		"transId": 2147483647, "resultCode": 0, "message": fields["message"],
		"payType": fields["payType"], "responseTime": 1700000000000,
		"extraData": "", "signature": momoCallbackSignature(adapter, fields),
	})
	_, err = adapter.HandleCallback(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMoMo_HandleCallback_RedirectQuery(t *testing.T) {
	adapter := newTestMoMo(t, "")

	fields := map[string]string{
		"partnerCode": "MOMOTEST", "orderId": "MOMO_1700000000000_a1b2c3d4",
		"requestId": "r1", "amount": "150000", "orderInfo": "Tour B1",
		"orderType": "momo_wallet", "transId": "2147483647", "resultCode": "0",
		"message": "Successful.", "payType": "qr",
		"responseTime": "1700000000000", "extraData": "",
	}
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("signature", momoCallbackSignature(adapter, fields))

	cb, err := adapter.HandleCallback(context.Background(), []byte(values.Encode()))
	require.NoError(t, err)
	assert.True(t, cb.Success)
	assert.Equal(t, "MOMO_1700000000000_a1b2c3d4", cb.TransactionID)
	assert.Equal(t, "2147483647", cb.ProviderOrderID)
	assert.Equal(t, int64(150000), cb.Amount)
}

func TestMoMo_HandleCallback_UnsignedRedirectQuery(t *testing.T) {
	adapter := newTestMoMo(t, "")

	// A forged redirect claiming success carries no valid signature and
	// must never be interpreted as a completed payment.
	_, err := adapter.HandleCallback(context.Background(), []byte("resultCode=0&orderId=MOMO_1_a"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	forged := url.Values{}
	forged.Set("resultCode", "0")
	forged.Set("orderId", "MOMO_1_a")
	forged.Set("signature", "deadbeef")
	_, err = adapter.HandleCallback(context.Background(), []byte(forged.Encode()))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMoMo_StatusMapping(t *testing.T) {
	cases := map[int]Status{
		0:    StatusCompleted,
		9000: StatusPending,
		8000: StatusProcessing,
		1006: StatusCancelled,
		1001: StatusFailed,
		-1:   StatusFailed,
	}
	for code, want := range cases {
		assert.Equal(t, want, mapMoMoStatus(code), "code %d", code)
	}
}

func TestMoMo_RefundRequiresTransID(t *testing.T) {
	adapter := newTestMoMo(t, "")

	resp := adapter.RefundPayment(context.Background(), RefundRequest{
		TransactionID: "MOMO_1_a",
		Amount:        150000,
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "transId")
}

func TestMoMo_Refund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/gateway/api/refund", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 0, "message": "Successful.", "transId": 900001,
		})
	}))
	defer server.Close()

	adapter := newTestMoMo(t, server.URL)
	resp := adapter.RefundPayment(context.Background(), RefundRequest{
		TransactionID:   "MOMO_1_a",
		ProviderOrderID: "2147483647",
		Amount:          150000,
		Reason:          "booking cancelled",
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "900001", resp.ProviderRefundID)
	assert.Equal(t, int64(150000), resp.RefundAmount)
}

func TestMoMo_QueryPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/gateway/api/query", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 9000, "message": "Authorized", "amount": 150000, "transId": 900001,
		})
	}))
	defer server.Close()

	adapter := newTestMoMo(t, server.URL)
	status := adapter.QueryPaymentStatus(context.Background(), "MOMO_1_a")

	assert.Equal(t, StatusPending, status.Status)
	assert.Equal(t, int64(150000), status.Amount)
}
