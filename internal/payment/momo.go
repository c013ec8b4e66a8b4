package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tripgo/internal/pkg/httpclient"
	"tripgo/internal/pkg/utils"
)

// MoMoConfig holds credentials and endpoints for the MoMo gateway.
type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string // API base, e.g. https://payment.momo.vn
	RedirectURL string
	IPNURL      string
}

// MoMoAdapter implements the Adapter interface for MoMo.
//
// MoMo signs HMAC-SHA256 over a fixed-order concatenation of named
// fields. Each operation (create, callback, query, refund) has its own
// documented field order; the templates below must match it exactly or
// signatures silently mismatch.
type MoMoAdapter struct {
	cfg    MoMoConfig
	client *httpclient.Client
	logger *zap.Logger
}

var _ Adapter = (*MoMoAdapter)(nil)

func NewMoMoAdapter(cfg MoMoConfig, logger *zap.Logger) (*MoMoAdapter, error) {
	switch {
	case cfg.PartnerCode == "":
		return nil, fmt.Errorf("momo: partner code is required")
	case cfg.AccessKey == "":
		return nil, fmt.Errorf("momo: access key is required")
	case cfg.SecretKey == "":
		return nil, fmt.Errorf("momo: secret key is required")
	case cfg.Endpoint == "":
		return nil, fmt.Errorf("momo: endpoint is required")
	}
	return &MoMoAdapter{
		cfg:    cfg,
		client: httpclient.New().WithTimeout(30 * time.Second),
		logger: logger,
	}, nil
}

func (a *MoMoAdapter) Name() Gateway {
	return GatewayMoMo
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
	Deeplink   string `json:"deeplink"`
	QRCodeURL  string `json:"qrCodeUrl"`
	OrderID    string `json:"orderId"`
	RequestID  string `json:"requestId"`
}

// CreatePayment posts a signed create request to MoMo and returns the
// hosted payment URL plus optional QR code and deeplink.
func (a *MoMoAdapter) CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse {
	if err := req.Validate(); err != nil {
		return &PaymentResponse{Success: false, Error: err.Error()}
	}

	txnID := NewTransactionID(GatewayMoMo)
	requestID := utils.GenerateUUID()
	redirectURL := req.ReturnURL
	if redirectURL == "" {
		redirectURL = a.cfg.RedirectURL
	}
	extra, _ := json.Marshal(map[string]string{"booking_id": req.BookingID, "user_id": req.UserID})
	extraData := base64.StdEncoding.EncodeToString(extra)
	requestType := "captureWallet"

	// Create signature field order is mandated by MoMo's docs.
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		a.cfg.AccessKey, req.Amount, extraData, a.cfg.IPNURL, txnID, req.Description,
		a.cfg.PartnerCode, redirectURL, requestID, requestType,
	)
	signature := hmacSHA256Hex(a.cfg.SecretKey, raw)

	body := map[string]interface{}{
		"partnerCode": a.cfg.PartnerCode,
		"requestId":   requestID,
		"amount":      req.Amount,
		"orderId":     txnID,
		"orderInfo":   req.Description,
		"redirectUrl": redirectURL,
		"ipnUrl":      a.cfg.IPNURL,
		"requestType": requestType,
		"extraData":   extraData,
		"lang":        "vi",
		"signature":   signature,
	}

	respBody, err := a.client.Post(ctx, a.cfg.Endpoint+"/v2/gateway/api/create", body)
	if err != nil {
		return &PaymentResponse{Success: false, Error: "momo create request failed: " + err.Error()}
	}

	var result momoCreateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &PaymentResponse{Success: false, Error: "momo create parse error: " + err.Error()}
	}
	if result.ResultCode != 0 {
		return &PaymentResponse{
			Success: false,
			Error:   fmt.Sprintf("momo declined with code %d: %s", result.ResultCode, result.Message),
		}
	}

	a.logger.Info("momo payment created",
		zap.String("transaction_id", txnID),
		zap.String("request_id", requestID))

	return &PaymentResponse{
		Success:       true,
		TransactionID: txnID,
		PaymentURL:    result.PayURL,
		QRCode:        result.QRCodeURL,
		Deeplink:      result.Deeplink,
	}
}

type momoCallback struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

func (cb *momoCallback) fields() map[string]string {
	return map[string]string{
		"partnerCode":  cb.PartnerCode,
		"orderId":      cb.OrderID,
		"requestId":    cb.RequestID,
		"amount":       strconv.FormatInt(cb.Amount, 10),
		"orderInfo":    cb.OrderInfo,
		"orderType":    cb.OrderType,
		"transId":      strconv.FormatInt(cb.TransID, 10),
		"resultCode":   strconv.Itoa(cb.ResultCode),
		"message":      cb.Message,
		"payType":      cb.PayType,
		"responseTime": strconv.FormatInt(cb.ResponseTime, 10),
		"extraData":    cb.ExtraData,
	}
}

// decodeMoMoCallback parses either the JSON IPN body or the redirect
// query string. MoMo signs both channels with the same field set, so
// one struct serves both.
func decodeMoMoCallback(payload []byte) (*momoCallback, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var cb momoCallback
		if err := json.Unmarshal(trimmed, &cb); err != nil {
			return nil, fmt.Errorf("malformed momo callback: %w", err)
		}
		return &cb, nil
	}

	fields, err := parseQueryFlat(string(payload))
	if err != nil {
		return nil, fmt.Errorf("malformed momo callback: %w", err)
	}
	cb := &momoCallback{
		PartnerCode: fields["partnerCode"],
		OrderID:     fields["orderId"],
		RequestID:   fields["requestId"],
		OrderInfo:   fields["orderInfo"],
		OrderType:   fields["orderType"],
		Message:     fields["message"],
		PayType:     fields["payType"],
		ExtraData:   fields["extraData"],
		Signature:   fields["signature"],
	}
	cb.Amount = utils.ParseInt64(fields["amount"], 0)
	cb.TransID = utils.ParseInt64(fields["transId"], 0)
	cb.ResultCode = utils.ParseInt(fields["resultCode"], -1)
	cb.ResponseTime = utils.ParseInt64(fields["responseTime"], 0)
	return cb, nil
}

// HandleCallback verifies the signature before interpreting the result,
// for both the server-to-server IPN and the browser redirect.
func (a *MoMoAdapter) HandleCallback(ctx context.Context, payload []byte) (*PaymentCallback, error) {
	cb, err := decodeMoMoCallback(payload)
	if err != nil {
		return nil, err
	}

	data := cb.fields()
	if !a.VerifySignature(data, cb.Signature) {
		a.logger.Error("momo callback signature mismatch",
			zap.Any("fields", Redact(data)))
		return nil, ErrInvalidSignature
	}

	return &PaymentCallback{
		Success:         cb.ResultCode == 0,
		TransactionID:   cb.OrderID,
		ProviderOrderID: strconv.FormatInt(cb.TransID, 10),
		Amount:          cb.Amount,
		Currency:        "VND",
		ResponseCode:    strconv.Itoa(cb.ResultCode),
		Message:         cb.Message,
		Signature:       cb.Signature,
		Raw:             data,
	}, nil
}

// VerifySignature checks a callback signature. The field order of the
// concatenation is fixed by MoMo regardless of how the payload was built.
func (a *MoMoAdapter) VerifySignature(data map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%s&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%s&resultCode=%s&transId=%s",
		a.cfg.AccessKey, data["amount"], data["extraData"], data["message"], data["orderId"],
		data["orderInfo"], data["orderType"], data["partnerCode"], data["payType"],
		data["requestId"], data["responseTime"], data["resultCode"], data["transId"],
	)
	return secureCompare(hmacSHA256Hex(a.cfg.SecretKey, raw), signature)
}

// QueryPaymentStatus calls MoMo's transaction query API.
func (a *MoMoAdapter) QueryPaymentStatus(ctx context.Context, transactionID string) *PaymentStatus {
	requestID := utils.GenerateUUID()
	raw := fmt.Sprintf("accessKey=%s&orderId=%s&partnerCode=%s&requestId=%s",
		a.cfg.AccessKey, transactionID, a.cfg.PartnerCode, requestID)

	body := map[string]interface{}{
		"partnerCode": a.cfg.PartnerCode,
		"requestId":   requestID,
		"orderId":     transactionID,
		"lang":        "vi",
		"signature":   hmacSHA256Hex(a.cfg.SecretKey, raw),
	}

	respBody, err := a.client.Post(ctx, a.cfg.Endpoint+"/v2/gateway/api/query", body)
	if err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "momo query request failed: " + err.Error(),
		}
	}

	var result struct {
		ResultCode int    `json:"resultCode"`
		Message    string `json:"message"`
		Amount     int64  `json:"amount"`
		TransID    int64  `json:"transId"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "momo query parse error: " + err.Error(),
		}
	}

	return &PaymentStatus{
		TransactionID: transactionID,
		Status:        mapMoMoStatus(result.ResultCode),
		Amount:        result.Amount,
		Currency:      "VND",
		Raw:           string(respBody),
	}
}

// RefundPayment refunds through MoMo. The provider's own transaction id
// (transId) is required in addition to the original order id.
func (a *MoMoAdapter) RefundPayment(ctx context.Context, req RefundRequest) *RefundResponse {
	if req.ProviderOrderID == "" {
		return &RefundResponse{Success: false, Error: "momo refund requires the provider transaction id (transId)"}
	}

	refundOrderID := NewTransactionID(GatewayMoMo)
	requestID := utils.GenerateUUID()
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&description=%s&orderId=%s&partnerCode=%s&requestId=%s&transId=%s",
		a.cfg.AccessKey, req.Amount, req.Reason, refundOrderID, a.cfg.PartnerCode, requestID, req.ProviderOrderID,
	)

	body := map[string]interface{}{
		"partnerCode": a.cfg.PartnerCode,
		"orderId":     refundOrderID,
		"requestId":   requestID,
		"amount":      req.Amount,
		"transId":     req.ProviderOrderID,
		"description": req.Reason,
		"lang":        "vi",
		"signature":   hmacSHA256Hex(a.cfg.SecretKey, raw),
	}

	respBody, err := a.client.Post(ctx, a.cfg.Endpoint+"/v2/gateway/api/refund", body)
	if err != nil {
		return &RefundResponse{Success: false, Error: "momo refund request failed: " + err.Error()}
	}

	var result struct {
		ResultCode int    `json:"resultCode"`
		Message    string `json:"message"`
		TransID    int64  `json:"transId"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &RefundResponse{Success: false, Error: "momo refund parse error: " + err.Error()}
	}
	if result.ResultCode != 0 {
		return &RefundResponse{
			Success: false,
			Error:   fmt.Sprintf("momo refund declined with code %d: %s", result.ResultCode, result.Message),
		}
	}

	return &RefundResponse{
		Success:          true,
		ProviderRefundID: strconv.FormatInt(result.TransID, 10),
		RefundAmount:     req.Amount,
	}
}

func mapMoMoStatus(resultCode int) Status {
	switch resultCode {
	case 0:
		return StatusCompleted
	case 9000:
		return StatusPending
	case 8000:
		return StatusProcessing
	case 1006:
		return StatusCancelled
	default:
		return StatusFailed
	}
}
