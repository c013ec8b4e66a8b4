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

// VNPayConfig holds credentials and endpoints for the VNPay gateway.
type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string // redirect base, e.g. https://pay.vnpay.vn/vpcpay.html
	APIURL     string // querydr/refund endpoint
	ReturnURL  string
	IPNURL     string
}

// VNPayAdapter implements the Adapter interface for VNPay.
// Signing is HMAC-SHA512 over the sorted, unencoded query string.
// Amounts are transmitted x100 (VND with two implicit decimals removed).
type VNPayAdapter struct {
	cfg    VNPayConfig
	client *httpclient.Client
	logger *zap.Logger
}

var _ Adapter = (*VNPayAdapter)(nil)

func NewVNPayAdapter(cfg VNPayConfig, logger *zap.Logger) (*VNPayAdapter, error) {
	switch {
	case cfg.TmnCode == "":
		return nil, fmt.Errorf("vnpay: tmn code is required")
	case cfg.HashSecret == "":
		return nil, fmt.Errorf("vnpay: hash secret is required")
	case cfg.PayURL == "":
		return nil, fmt.Errorf("vnpay: pay url is required")
	case cfg.APIURL == "":
		return nil, fmt.Errorf("vnpay: api url is required")
	}
	return &VNPayAdapter{
		cfg:    cfg,
		client: httpclient.New().WithTimeout(30 * time.Second),
		logger: logger,
	}, nil
}

func (a *VNPayAdapter) Name() Gateway {
	return GatewayVNPay
}

// CreatePayment builds a signed redirect URL. No network call is made:
// VNPay's create step is purely local URL construction.
func (a *VNPayAdapter) CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse {
	if err := req.Validate(); err != nil {
		return &PaymentResponse{Success: false, Error: err.Error()}
	}

	txnID := NewTransactionID(GatewayVNPay)
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = a.cfg.ReturnURL
	}
	clientIP := req.ClientIP
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    a.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount*100, 10),
		"vnp_CurrCode":   req.Currency,
		"vnp_TxnRef":     txnID,
		"vnp_OrderInfo":  req.Description,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  returnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": time.Now().Format("20060102150405"),
		"vnp_BankCode":   req.BankCode,
	}

	// The hash is computed over the unencoded canonical string; the URL
	// itself carries the encoded form.
	secureHash := hmacSHA512Hex(a.cfg.HashSecret, canonicalQuery(params, false))
	payURL := a.cfg.PayURL + "?" + canonicalQuery(params, true) + "&vnp_SecureHash=" + secureHash

	a.logger.Info("vnpay payment created",
		zap.String("transaction_id", txnID),
		zap.Any("params", Redact(params)))

	return &PaymentResponse{
		Success:       true,
		TransactionID: txnID,
		PaymentURL:    payURL,
	}
}

// HandleCallback verifies the secure hash before reading anything else.
func (a *VNPayAdapter) HandleCallback(ctx context.Context, payload []byte) (*PaymentCallback, error) {
	data, err := parseQueryFlat(string(payload))
	if err != nil {
		return nil, err
	}

	signature := data["vnp_SecureHash"]
	if !a.VerifySignature(data, signature) {
		a.logger.Error("vnpay callback signature mismatch",
			zap.Any("fields", Redact(data)))
		return nil, ErrInvalidSignature
	}

	respCode := data["vnp_ResponseCode"]
	txnStatus := data["vnp_TransactionStatus"]
	amount, _ := strconv.ParseInt(data["vnp_Amount"], 10, 64)

	return &PaymentCallback{
		Success:         respCode == "00" && txnStatus == "00",
		TransactionID:   data["vnp_TxnRef"],
		ProviderOrderID: data["vnp_TransactionNo"],
		Amount:          amount / 100,
		Currency:        currencyOrVND(data["vnp_CurrCode"]),
		ResponseCode:    respCode,
		Message:         vnpayMessage(respCode),
		Signature:       signature,
		Raw:             data,
	}, nil
}

// VerifySignature recomputes the HMAC-SHA512 over all fields except the
// hash fields themselves and compares byte-for-byte.
func (a *VNPayAdapter) VerifySignature(data map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	fields := make(map[string]string, len(data))
	for k, v := range data {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		fields[k] = v
	}
	expected := hmacSHA512Hex(a.cfg.HashSecret, canonicalQuery(fields, false))
	return secureCompare(expected, signature)
}

// QueryPaymentStatus calls VNPay's querydr API. Transport failures are
// folded into a synthetic failed status.
func (a *VNPayAdapter) QueryPaymentStatus(ctx context.Context, transactionID string) *PaymentStatus {
	now := time.Now().Format("20060102150405")
	params := map[string]string{
		"vnp_RequestId":       utils.GenerateUUID(),
		"vnp_Version":         "2.1.0",
		"vnp_Command":         "querydr",
		"vnp_TmnCode":         a.cfg.TmnCode,
		"vnp_TxnRef":          transactionID,
		"vnp_OrderInfo":       "query transaction " + transactionID,
		"vnp_TransactionDate": now,
		"vnp_CreateDate":      now,
		"vnp_IpAddr":          "127.0.0.1",
	}
	params["vnp_SecureHash"] = a.signParams(params)

	body, err := a.client.Post(ctx, a.cfg.APIURL, params)
	if err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "querydr request failed: " + err.Error(),
		}
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "querydr parse error: " + err.Error(),
		}
	}

	amount, _ := strconv.ParseInt(jsonString(result, "vnp_Amount"), 10, 64)
	return &PaymentStatus{
		TransactionID: transactionID,
		Status:        mapVNPayStatus(jsonString(result, "vnp_TransactionStatus")),
		Amount:        amount / 100,
		Currency:      "VND",
		Raw:           string(body),
	}
}

// RefundPayment calls VNPay's refund API with the same signing scheme and
// a different command field.
func (a *VNPayAdapter) RefundPayment(ctx context.Context, req RefundRequest) *RefundResponse {
	now := time.Now().Format("20060102150405")
	params := map[string]string{
		"vnp_RequestId":       utils.GenerateUUID(),
		"vnp_Version":         "2.1.0",
		"vnp_Command":         "refund",
		"vnp_TmnCode":         a.cfg.TmnCode,
		"vnp_TransactionType": "02",
		"vnp_TxnRef":          req.TransactionID,
		"vnp_Amount":          strconv.FormatInt(req.Amount*100, 10),
		"vnp_OrderInfo":       req.Reason,
		"vnp_TransactionNo":   req.ProviderOrderID,
		"vnp_TransactionDate": now,
		"vnp_CreateDate":      now,
		"vnp_CreateBy":        "tripgo",
		"vnp_IpAddr":          "127.0.0.1",
	}
	params["vnp_SecureHash"] = a.signParams(params)

	body, err := a.client.Post(ctx, a.cfg.APIURL, params)
	if err != nil {
		return &RefundResponse{Success: false, Error: "refund request failed: " + err.Error()}
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return &RefundResponse{Success: false, Error: "refund parse error: " + err.Error()}
	}

	if code := jsonString(result, "vnp_ResponseCode"); code != "00" {
		return &RefundResponse{
			Success: false,
			Error:   fmt.Sprintf("refund declined with code %s: %s", code, vnpayMessage(code)),
		}
	}

	return &RefundResponse{
		Success:          true,
		ProviderRefundID: jsonString(result, "vnp_TransactionNo"),
		RefundAmount:     req.Amount,
	}
}

func (a *VNPayAdapter) signParams(params map[string]string) string {
	fields := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		fields[k] = v
	}
	return hmacSHA512Hex(a.cfg.HashSecret, canonicalQuery(fields, false))
}

// mapVNPayStatus maps VNPay transaction status codes onto the normalized
// state set. Code 07 is documented by the provider as suspected fraud;
// it stays in processing until reconciled.
func mapVNPayStatus(code string) Status {
	switch code {
	case "00":
		return StatusCompleted
	case "07":
		return StatusProcessing
	case "24":
		return StatusCancelled
	case "09", "10":
		return StatusPending
	default:
		return StatusFailed
	}
}

// vnpayMessages maps provider response codes to user-facing Vietnamese text.
var vnpayMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công, giao dịch bị nghi ngờ gian lận",
	"09": "Thẻ/Tài khoản chưa đăng ký dịch vụ InternetBanking",
	"10": "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Đã hết hạn chờ thanh toán",
	"12": "Thẻ/Tài khoản bị khóa",
	"13": "Nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Khách hàng hủy giao dịch",
	"51": "Tài khoản không đủ số dư để thực hiện giao dịch",
	"65": "Tài khoản đã vượt quá hạn mức giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Nhập sai mật khẩu thanh toán quá số lần quy định",
	"99": "Lỗi không xác định",
}

func vnpayMessage(code string) string {
	if msg, ok := vnpayMessages[code]; ok {
		return msg
	}
	return vnpayMessages["99"]
}

func currencyOrVND(c string) string {
	if c == "" {
		return "VND"
	}
	return c
}

func jsonString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
