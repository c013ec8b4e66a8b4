package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tripgo/internal/pkg/httpclient"
	"tripgo/internal/pkg/utils"
)

// ZaloPayConfig holds credentials and endpoints for the ZaloPay gateway.
// Key1 signs outbound requests; Key2 verifies inbound callback macs. The
// two keys are distinct by provider design and must not be collapsed.
type ZaloPayConfig struct {
	AppID       string
	Key1        string
	Key2        string
	CreateURL   string // e.g. https://openapi.zalopay.vn/v2/create
	QueryURL    string
	RefundURL   string
	CallbackURL string
}

// ZaloPayAdapter implements the Adapter interface for ZaloPay.
type ZaloPayAdapter struct {
	cfg    ZaloPayConfig
	client *httpclient.Client
	logger *zap.Logger
}

var _ Adapter = (*ZaloPayAdapter)(nil)

func NewZaloPayAdapter(cfg ZaloPayConfig, logger *zap.Logger) (*ZaloPayAdapter, error) {
	switch {
	case cfg.AppID == "":
		return nil, fmt.Errorf("zalopay: app id is required")
	case cfg.Key1 == "":
		return nil, fmt.Errorf("zalopay: key1 is required")
	case cfg.Key2 == "":
		return nil, fmt.Errorf("zalopay: key2 is required")
	case cfg.CreateURL == "":
		return nil, fmt.Errorf("zalopay: create url is required")
	}
	return &ZaloPayAdapter{
		cfg:    cfg,
		client: httpclient.New().WithTimeout(30 * time.Second),
		logger: logger,
	}, nil
}

func (a *ZaloPayAdapter) Name() Gateway {
	return GatewayZaloPay
}

// newAppTransID builds ZaloPay's mandated order id format:
// {yymmdd}_{6-digit-random}. The provider rejects any other shape.
func newAppTransID() string {
	return fmt.Sprintf("%s_%s", time.Now().Format("060102"), utils.RandomDigits(6))
}

// CreatePayment posts a signed create-order request. The internal
// transaction id rides along in embed_data because ZaloPay insists on its
// own order id format for app_trans_id.
func (a *ZaloPayAdapter) CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse {
	if err := req.Validate(); err != nil {
		return &PaymentResponse{Success: false, Error: err.Error()}
	}

	txnID := NewTransactionID(GatewayZaloPay)
	appTransID := newAppTransID()
	appUser := req.UserID
	if appUser == "" {
		appUser = "guest"
	}
	appTime := time.Now().UnixMilli()

	embedRaw, _ := json.Marshal(map[string]string{
		"redirecturl": req.ReturnURL,
		"txn_id":      txnID,
		"booking_id":  req.BookingID,
	})
	itemRaw, _ := json.Marshal([]map[string]interface{}{
		{"id": req.BookingID, "price": req.Amount, "quantity": 1},
	})
	embedData := string(embedRaw)
	item := string(itemRaw)

	// The mac input must use the exact JSON strings sent on the wire.
	macInput := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%s",
		a.cfg.AppID, appTransID, appUser, req.Amount, appTime, embedData, item)
	mac := hmacSHA256Hex(a.cfg.Key1, macInput)

	form := map[string]string{
		"app_id":       a.cfg.AppID,
		"app_trans_id": appTransID,
		"app_user":     appUser,
		"app_time":     strconv.FormatInt(appTime, 10),
		"amount":       strconv.FormatInt(req.Amount, 10),
		"embed_data":   embedData,
		"item":         item,
		"description":  req.Description,
		"bank_code":    req.BankCode,
		"callback_url": a.cfg.CallbackURL,
		"mac":          mac,
	}

	respBody, err := a.client.PostForm(ctx, a.cfg.CreateURL, form)
	if err != nil {
		return &PaymentResponse{Success: false, Error: "zalopay create request failed: " + err.Error()}
	}

	var result struct {
		ReturnCode    int    `json:"return_code"`
		ReturnMessage string `json:"return_message"`
		OrderURL      string `json:"order_url"`
		QRCode        string `json:"qr_code"`
		ZpTransToken  string `json:"zp_trans_token"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &PaymentResponse{Success: false, Error: "zalopay create parse error: " + err.Error()}
	}
	if result.ReturnCode != 1 {
		return &PaymentResponse{
			Success: false,
			Error:   fmt.Sprintf("zalopay declined with code %d: %s", result.ReturnCode, result.ReturnMessage),
		}
	}

	a.logger.Info("zalopay payment created",
		zap.String("transaction_id", txnID),
		zap.String("app_trans_id", appTransID))

	return &PaymentResponse{
		Success:         true,
		TransactionID:   txnID,
		ProviderOrderID: appTransID,
		PaymentURL:      result.OrderURL,
		QRCode:          result.QRCode,
		Deeplink:        result.ZpTransToken,
	}
}

type zaloPayCallbackEnvelope struct {
	Data string `json:"data"`
	Mac  string `json:"mac"`
	Type int    `json:"type"`
}

type zaloPayCallbackData struct {
	AppID      int    `json:"app_id"`
	AppTransID string `json:"app_trans_id"`
	AppUser    string `json:"app_user"`
	AppTime    int64  `json:"app_time"`
	Amount     int64  `json:"amount"`
	EmbedData  string `json:"embed_data"`
	Item       string `json:"item"`
	ZpTransID  int64  `json:"zp_trans_id"`
	ServerTime int64  `json:"server_time"`
	Channel    int    `json:"channel"`
}

// HandleCallback verifies the key2 mac over the raw data string, then
// unwraps the inner transaction payload. ZaloPay only calls back after a
// successful payment.
func (a *ZaloPayAdapter) HandleCallback(ctx context.Context, payload []byte) (*PaymentCallback, error) {
	var envelope zaloPayCallbackEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("malformed zalopay callback: %w", err)
	}

	// Inbound verification uses key2, never key1.
	if !secureCompare(hmacSHA256Hex(a.cfg.Key2, envelope.Data), envelope.Mac) {
		a.logger.Error("zalopay callback mac mismatch")
		return nil, ErrInvalidSignature
	}

	var data zaloPayCallbackData
	if err := json.Unmarshal([]byte(envelope.Data), &data); err != nil {
		return nil, fmt.Errorf("malformed zalopay callback data: %w", err)
	}

	// Recover the internal transaction id from embed_data.
	txnID := data.AppTransID
	var embedded struct {
		TxnID string `json:"txn_id"`
	}
	if err := json.Unmarshal([]byte(data.EmbedData), &embedded); err == nil && embedded.TxnID != "" {
		txnID = embedded.TxnID
	}

	return &PaymentCallback{
		Success:         true,
		TransactionID:   txnID,
		ProviderOrderID: data.AppTransID,
		Amount:          data.Amount,
		Currency:        "VND",
		ResponseCode:    "1",
		Message:         "giao dịch thành công",
		Signature:       envelope.Mac,
		Raw: map[string]string{
			"data": envelope.Data,
			"mac":  envelope.Mac,
			"type": strconv.Itoa(envelope.Type),
		},
	}, nil
}

// VerifySignature verifies either direction of ZaloPay's mac scheme: a
// callback envelope ("data" present, key2) or an outbound create-order
// field set (key1).
func (a *ZaloPayAdapter) VerifySignature(data map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	if raw, ok := data["data"]; ok {
		return secureCompare(hmacSHA256Hex(a.cfg.Key2, raw), signature)
	}
	macInput := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		data["app_id"], data["app_trans_id"], data["app_user"],
		data["amount"], data["app_time"], data["embed_data"], data["item"])
	return secureCompare(hmacSHA256Hex(a.cfg.Key1, macInput), signature)
}

// QueryPaymentStatus queries an order by its provider order id
// (app_trans_id), the id ZaloPay keys its own records by.
func (a *ZaloPayAdapter) QueryPaymentStatus(ctx context.Context, transactionID string) *PaymentStatus {
	macInput := fmt.Sprintf("%s|%s|%s", a.cfg.AppID, transactionID, a.cfg.Key1)
	form := map[string]string{
		"app_id":       a.cfg.AppID,
		"app_trans_id": transactionID,
		"mac":          hmacSHA256Hex(a.cfg.Key1, macInput),
	}

	respBody, err := a.client.PostForm(ctx, a.cfg.QueryURL, form)
	if err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "zalopay query request failed: " + err.Error(),
		}
	}

	var result struct {
		ReturnCode   int    `json:"return_code"`
		ReturnMsg    string `json:"return_message"`
		IsProcessing bool   `json:"is_processing"`
		Amount       int64  `json:"amount"`
		ZpTransID    int64  `json:"zp_trans_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "zalopay query parse error: " + err.Error(),
		}
	}

	return &PaymentStatus{
		TransactionID: transactionID,
		Status:        mapZaloPayStatus(result.ReturnCode, result.IsProcessing),
		Amount:        result.Amount,
		Currency:      "VND",
		Raw:           string(respBody),
	}
}

// RefundPayment refunds through ZaloPay. Requires the provider
// transaction id (zp_trans_id) from the callback.
func (a *ZaloPayAdapter) RefundPayment(ctx context.Context, req RefundRequest) *RefundResponse {
	if req.ProviderOrderID == "" {
		return &RefundResponse{Success: false, Error: "zalopay refund requires the provider transaction id (zp_trans_id)"}
	}

	mRefundID := fmt.Sprintf("%s_%s_%s", time.Now().Format("060102"), a.cfg.AppID, utils.RandomDigits(6))
	timestamp := time.Now().UnixMilli()
	macInput := fmt.Sprintf("%s|%s|%d|%s|%d",
		a.cfg.AppID, req.ProviderOrderID, req.Amount, req.Reason, timestamp)

	form := map[string]string{
		"app_id":      a.cfg.AppID,
		"m_refund_id": mRefundID,
		"zp_trans_id": req.ProviderOrderID,
		"amount":      strconv.FormatInt(req.Amount, 10),
		"description": req.Reason,
		"timestamp":   strconv.FormatInt(timestamp, 10),
		"mac":         hmacSHA256Hex(a.cfg.Key1, macInput),
	}

	respBody, err := a.client.PostForm(ctx, a.cfg.RefundURL, form)
	if err != nil {
		return &RefundResponse{Success: false, Error: "zalopay refund request failed: " + err.Error()}
	}

	var result struct {
		ReturnCode    int    `json:"return_code"`
		ReturnMessage string `json:"return_message"`
		RefundID      int64  `json:"refund_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &RefundResponse{Success: false, Error: "zalopay refund parse error: " + err.Error()}
	}
	if result.ReturnCode != 1 {
		return &RefundResponse{
			Success: false,
			Error:   fmt.Sprintf("zalopay refund declined with code %d: %s", result.ReturnCode, result.ReturnMessage),
		}
	}

	return &RefundResponse{
		Success:          true,
		ProviderRefundID: strconv.FormatInt(result.RefundID, 10),
		RefundAmount:     req.Amount,
	}
}

// mapZaloPayStatus maps return codes; is_processing upgrades an
// otherwise-failed code to processing.
func mapZaloPayStatus(returnCode int, isProcessing bool) Status {
	switch returnCode {
	case 1:
		return StatusCompleted
	case 3:
		return StatusPending
	default:
		if isProcessing {
			return StatusProcessing
		}
		return StatusFailed
	}
}
