package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripgo/internal/pkg/httpclient"
)

// OnePayConfig holds credentials and endpoints for the OnePay gateway.
type OnePayConfig struct {
	Merchant   string
	AccessCode string
	HashSecret string
	PayURL     string // redirect base, e.g. https://onepay.vn/paygate/vpcpay.op
	QueryURL   string
	ReturnURL  string
}

// OnePayAdapter implements the Adapter interface for OnePay.
//
// OnePay hashes SHA-256 over the shared secret concatenated with the
// canonical data string (not an HMAC) and upper-cases the hex. Only
// fields prefixed vpc_ or user_ participate in the hash. Amounts are
// transmitted x100. The provider has no programmatic refund API.
type OnePayAdapter struct {
	cfg    OnePayConfig
	client *httpclient.Client
	logger *zap.Logger
}

var _ Adapter = (*OnePayAdapter)(nil)

func NewOnePayAdapter(cfg OnePayConfig, logger *zap.Logger) (*OnePayAdapter, error) {
	switch {
	case cfg.Merchant == "":
		return nil, fmt.Errorf("onepay: merchant is required")
	case cfg.AccessCode == "":
		return nil, fmt.Errorf("onepay: access code is required")
	case cfg.HashSecret == "":
		return nil, fmt.Errorf("onepay: hash secret is required")
	case cfg.PayURL == "":
		return nil, fmt.Errorf("onepay: pay url is required")
	}
	return &OnePayAdapter{
		cfg:    cfg,
		client: httpclient.New().WithTimeout(30 * time.Second),
		logger: logger,
	}, nil
}

func (a *OnePayAdapter) Name() Gateway {
	return GatewayOnePay
}

// CreatePayment builds a signed redirect URL locally, no network call.
func (a *OnePayAdapter) CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse {
	if err := req.Validate(); err != nil {
		return &PaymentResponse{Success: false, Error: err.Error()}
	}

	txnID := NewTransactionID(GatewayOnePay)
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = a.cfg.ReturnURL
	}
	clientIP := req.ClientIP
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"vpc_Version":        "2",
		"vpc_Command":        "pay",
		"vpc_AccessCode":     a.cfg.AccessCode,
		"vpc_Merchant":       a.cfg.Merchant,
		"vpc_MerchTxnRef":    txnID,
		"vpc_OrderInfo":      req.Description,
		"vpc_Amount":         strconv.FormatInt(req.Amount*100, 10),
		"vpc_Currency":       req.Currency,
		"vpc_ReturnURL":      returnURL,
		"vpc_Locale":         "vn",
		"vpc_TicketNo":       clientIP,
		"vpc_Customer_Email": req.CustomerEmail,
		"vpc_Customer_Phone": req.CustomerPhone,
	}

	secureHash := a.hash(params)
	payURL := a.cfg.PayURL + "?" + canonicalQuery(params, true) + "&vpc_SecureHash=" + secureHash

	a.logger.Info("onepay payment created",
		zap.String("transaction_id", txnID),
		zap.Any("params", Redact(params)))

	return &PaymentResponse{
		Success:       true,
		TransactionID: txnID,
		PaymentURL:    payURL,
	}
}

// HandleCallback verifies the secure hash before interpreting the result.
func (a *OnePayAdapter) HandleCallback(ctx context.Context, payload []byte) (*PaymentCallback, error) {
	data, err := parseQueryFlat(string(payload))
	if err != nil {
		return nil, err
	}

	signature := data["vpc_SecureHash"]
	if !a.VerifySignature(data, signature) {
		a.logger.Error("onepay callback hash mismatch",
			zap.Any("fields", Redact(data)))
		return nil, ErrInvalidSignature
	}

	respCode := data["vpc_TxnResponseCode"]
	amount, _ := strconv.ParseInt(data["vpc_Amount"], 10, 64)

	return &PaymentCallback{
		Success:         respCode == "0",
		TransactionID:   data["vpc_MerchTxnRef"],
		ProviderOrderID: data["vpc_TransactionNo"],
		Amount:          amount / 100,
		Currency:        currencyOrVND(data["vpc_Currency"]),
		ResponseCode:    respCode,
		Message:         onePayMessage(respCode),
		Signature:       signature,
		Raw:             data,
	}, nil
}

// VerifySignature recomputes the hash and compares case-normalized:
// OnePay hashes are upper hex but comparison must tolerate either case.
func (a *OnePayAdapter) VerifySignature(data map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	return secureCompare(a.hash(data), strings.ToUpper(signature))
}

// hash selects only vpc_/user_ prefixed fields (excluding the hash
// itself), sorts them, and hashes secret+data. This selective inclusion
// is provider-mandated.
func (a *OnePayAdapter) hash(data map[string]string) string {
	fields := make(map[string]string, len(data))
	for k, v := range data {
		if k == "vpc_SecureHash" || k == "vpc_SecureHashType" {
			continue
		}
		if strings.HasPrefix(k, "vpc_") || strings.HasPrefix(k, "user_") {
			fields[k] = v
		}
	}
	return sha256UpperHex(a.cfg.HashSecret + canonicalQuery(fields, false))
}

// QueryPaymentStatus calls OnePay's queryDR endpoint.
func (a *OnePayAdapter) QueryPaymentStatus(ctx context.Context, transactionID string) *PaymentStatus {
	if a.cfg.QueryURL == "" {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "onepay query url not configured",
		}
	}

	params := map[string]string{
		"vpc_Version":     "2",
		"vpc_Command":     "queryDR",
		"vpc_AccessCode":  a.cfg.AccessCode,
		"vpc_Merchant":    a.cfg.Merchant,
		"vpc_MerchTxnRef": transactionID,
		"vpc_User":        "op01",
	}
	params["vpc_SecureHash"] = a.hash(params)

	respBody, err := a.client.PostForm(ctx, a.cfg.QueryURL, params)
	if err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "onepay query request failed: " + err.Error(),
		}
	}

	result, err := parseQueryFlat(string(respBody))
	if err != nil {
		return &PaymentStatus{
			TransactionID: transactionID,
			Status:        StatusFailed,
			Raw:           "onepay query parse error: " + err.Error(),
		}
	}

	amount, _ := strconv.ParseInt(result["vpc_Amount"], 10, 64)
	return &PaymentStatus{
		TransactionID: transactionID,
		Status:        mapOnePayStatus(result["vpc_TxnResponseCode"]),
		Amount:        amount / 100,
		Currency:      "VND",
		Raw:           string(respBody),
	}
}

// RefundPayment is not supported by OnePay's API. The failure is
// explicit and makes no network call.
func (a *OnePayAdapter) RefundPayment(ctx context.Context, req RefundRequest) *RefundResponse {
	return &RefundResponse{
		Success:      false,
		RefundAmount: 0,
		Error:        "onepay: " + ErrRefundUnsupported.Error(),
	}
}

func mapOnePayStatus(code string) Status {
	switch code {
	case "0":
		return StatusCompleted
	case "99":
		return StatusCancelled
	case "1", "2", "3":
		return StatusFailed
	default:
		return StatusPending
	}
}

// onePayMessages maps response codes to user-facing Vietnamese text.
var onePayMessages = map[string]string{
	"0":  "Giao dịch thành công",
	"1":  "Ngân hàng từ chối giao dịch",
	"2":  "Mã đơn vị không tồn tại",
	"3":  "Không đúng access code",
	"4":  "Số tiền không hợp lệ",
	"5":  "Số dư không đủ",
	"6":  "Lỗi kết nối tới ngân hàng",
	"7":  "Lỗi phát sinh trong quá trình xử lý",
	"8":  "Số thẻ không đúng",
	"9":  "Tên chủ thẻ không đúng",
	"10": "Thẻ hết hạn hoặc bị khóa",
	"99": "Người dùng hủy giao dịch",
}

func onePayMessage(code string) string {
	if msg, ok := onePayMessages[code]; ok {
		return msg
	}
	return "Giao dịch đang chờ xử lý"
}
