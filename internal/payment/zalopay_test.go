package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestZaloPay(t *testing.T, baseURL string) *ZaloPayAdapter {
	t.Helper()
	if baseURL == "" {
		baseURL = "https://openapi.example.com"
	}
	adapter, err := NewZaloPayAdapter(ZaloPayConfig{
		AppID:       "2553",
		Key1:        "zalopay-key1-outbound",
		Key2:        "zalopay-key2-inbound",
		CreateURL:   baseURL + "/v2/create",
		QueryURL:    baseURL + "/v2/query",
		RefundURL:   baseURL + "/v2/refund",
		CallbackURL: "https://merchant.example.com/payment/zalopay/callback",
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestNewZaloPayAdapter_MissingConfig(t *testing.T) {
	_, err := NewZaloPayAdapter(ZaloPayConfig{AppID: "1", Key1: "a", CreateURL: "u"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key2")
}

func TestZaloPay_AppTransIDFormat(t *testing.T) {
	assert.Regexp(t, `^\d{6}_\d{6}$`, newAppTransID())
}

func TestZaloPay_CreatePayment_SignsWithKey1(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"return_code":    1,
			"return_message": "success",
			"order_url":      "https://qr.example.com/order/abc",
			"qr_code":        "00020101021226...",
			"zp_trans_token": "tok123",
		})
	}))
	defer server.Close()

	adapter := newTestZaloPay(t, server.URL)
	resp := adapter.CreatePayment(context.Background(), PaymentRequest{
		BookingID:   "B1",
		UserID:      "u42",
		Amount:      150000,
		Currency:    "VND",
		Description: "Tour booking B1",
		ReturnURL:   "https://merchant.example.com/result",
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "https://qr.example.com/order/abc", resp.PaymentURL)
	assert.Regexp(t, `^\d{6}_\d{6}$`, resp.ProviderOrderID)
	assert.NotEmpty(t, resp.TransactionID)

	// The outbound mac uses key1 over the exact wire strings.
	macInput := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		gotForm["app_id"], gotForm["app_trans_id"], gotForm["app_user"],
		gotForm["amount"], gotForm["app_time"], gotForm["embed_data"], gotForm["item"])
	assert.Equal(t, hmacSHA256Hex(adapter.cfg.Key1, macInput), gotForm["mac"])

	// embed_data carries the internal transaction id for correlation.
	var embedded map[string]string
	require.NoError(t, json.Unmarshal([]byte(gotForm["embed_data"]), &embedded))
	assert.Equal(t, resp.TransactionID, embedded["txn_id"])
}

func zaloPayCallbackPayload(t *testing.T, a *ZaloPayAdapter, key string, txnID string) []byte {
	t.Helper()
	embed, _ := json.Marshal(map[string]string{"txn_id": txnID, "booking_id": "B1"})
	data, _ := json.Marshal(map[string]interface{}{
		"app_id":       2553,
		"app_trans_id": "231130_123456",
		"app_user":     "u42",
		"app_time":     1700000000000,
		"amount":       150000,
		"embed_data":   string(embed),
		"item":         `[{"id":"B1","price":150000,"quantity":1}]`,
		"zp_trans_id":  231130000000123,
		"server_time":  1700000000123,
		"channel":      38,
	})
	payload, _ := json.Marshal(map[string]interface{}{
		"data": string(data),
		"mac":  hmacSHA256Hex(key, string(data)),
		"type": 1,
	})
	return payload
}

func TestZaloPay_HandleCallback_VerifiesWithKey2(t *testing.T) {
	adapter := newTestZaloPay(t, "")
	txnID := "ZALOPAY_1700000000000_a1b2c3d4"

	cb, err := adapter.HandleCallback(context.Background(),
		zaloPayCallbackPayload(t, adapter, adapter.cfg.Key2, txnID))
	require.NoError(t, err)

	assert.True(t, cb.Success)
	assert.Equal(t, txnID, cb.TransactionID)
	assert.Equal(t, "231130_123456", cb.ProviderOrderID)
	assert.Equal(t, int64(150000), cb.Amount)
}

func TestZaloPay_HandleCallback_Key1MacRejected(t *testing.T) {
	// A mac computed with the outbound key must not verify inbound: the
	// two keys are deliberately asymmetric.
	adapter := newTestZaloPay(t, "")

	_, err := adapter.HandleCallback(context.Background(),
		zaloPayCallbackPayload(t, adapter, adapter.cfg.Key1, "ZALOPAY_1_a"))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestZaloPay_HandleCallback_TamperedDataRejected(t *testing.T) {
	adapter := newTestZaloPay(t, "")

	payload := zaloPayCallbackPayload(t, adapter, adapter.cfg.Key2, "ZALOPAY_1_a")
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &envelope))
	envelope["data"] = envelope["data"].(string) + " "
	tampered, _ := json.Marshal(envelope)

	_, err := adapter.HandleCallback(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestZaloPay_StatusMapping(t *testing.T) {
	assert.Equal(t, StatusCompleted, mapZaloPayStatus(1, false))
	assert.Equal(t, StatusPending, mapZaloPayStatus(3, false))
	assert.Equal(t, StatusFailed, mapZaloPayStatus(2, false))
	// is_processing upgrades an otherwise-failed code.
	assert.Equal(t, StatusProcessing, mapZaloPayStatus(2, true))
}

func TestZaloPay_QueryPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		// The query mac covers app_id|app_trans_id|key1.
		macInput := fmt.Sprintf("%s|%s|%s", r.PostForm.Get("app_id"), r.PostForm.Get("app_trans_id"), "zalopay-key1-outbound")
		require.Equal(t, hmacSHA256Hex("zalopay-key1-outbound", macInput), r.PostForm.Get("mac"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"return_code": 2, "return_message": "failed", "is_processing": true, "amount": 150000,
		})
	}))
	defer server.Close()

	adapter := newTestZaloPay(t, server.URL)
	status := adapter.QueryPaymentStatus(context.Background(), "231130_123456")

	assert.Equal(t, StatusProcessing, status.Status)
	assert.Equal(t, int64(150000), status.Amount)
}

func TestZaloPay_RefundRequiresZpTransID(t *testing.T) {
	adapter := newTestZaloPay(t, "")

	resp := adapter.RefundPayment(context.Background(), RefundRequest{
		TransactionID: "ZALOPAY_1_a",
		Amount:        150000,
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "zp_trans_id")
}
