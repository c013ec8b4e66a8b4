package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
	"tripgo/internal/payment"
	"tripgo/internal/repository"
)

// PaymentCallbackHandler terminates gateway callbacks. Each provider
// mandates its own acknowledgement shape, so every gateway gets its own
// endpoint; the verified result then flows through one shared pipeline.
type PaymentCallbackHandler struct {
	repos        *CallbackRepos
	orchestrator *payment.Orchestrator
	resultURL    string
	logger       *zap.Logger
}

// CallbackRepos bundles repositories for payment callbacks.
type CallbackRepos struct {
	Booking *repository.BookingRepository
	Payment *repository.PaymentRepository
}

// NewPaymentCallbackHandler creates a new payment callback handler.
// resultURL is where browser returns are redirected with a result query.
func NewPaymentCallbackHandler(
	repos *CallbackRepos,
	orchestrator *payment.Orchestrator,
	resultURL string,
	logger *zap.Logger,
) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		repos:        repos,
		orchestrator: orchestrator,
		resultURL:    resultURL,
		logger:       logger,
	}
}

// providerAck is the {RspCode, Message} shape VNPay and OnePay expect.
type providerAck struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// zaloAck is the shape ZaloPay expects.
type zaloAck struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
}

// ── VNPay ────────────────────────────────────────────────────────────

// VNPayIPN handles VNPay's server-to-server notification. The payload
// is the raw query string.
func (h *PaymentCallbackHandler) VNPayIPN(c echo.Context) error {
	cb, err := h.process(c, payment.GatewayVNPay, []byte(c.Request().URL.RawQuery))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.JSON(http.StatusOK, providerAck{RspCode: "97", Message: "Invalid signature"})
		}
		return c.JSON(http.StatusOK, providerAck{RspCode: "99", Message: "Unknown error"})
	}
	if cb == nil {
		return c.JSON(http.StatusOK, providerAck{RspCode: "01", Message: "Order not found"})
	}
	return c.JSON(http.StatusOK, providerAck{RspCode: "00", Message: "Confirm success"})
}

// VNPayReturn handles the browser redirect back from VNPay.
func (h *PaymentCallbackHandler) VNPayReturn(c echo.Context) error {
	return h.browserReturn(c, payment.GatewayVNPay, []byte(c.Request().URL.RawQuery))
}

// ── MoMo ─────────────────────────────────────────────────────────────

// MoMoIPN handles MoMo's server-to-server notification. MoMo expects a
// bare 204 acknowledgement.
func (h *PaymentCallbackHandler) MoMoIPN(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if _, err := h.process(c, payment.GatewayMoMo, body); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.NoContent(http.StatusForbidden)
		}
		return c.NoContent(http.StatusBadRequest)
	}
	return c.NoContent(http.StatusNoContent)
}

// MoMoReturn handles the browser redirect back from MoMo. The redirect
// query carries the same signed field set as the IPN, so it runs
// through the same verification pipeline; an unverified result never
// reaches the customer as a success.
func (h *PaymentCallbackHandler) MoMoReturn(c echo.Context) error {
	return h.browserReturn(c, payment.GatewayMoMo, []byte(c.Request().URL.RawQuery))
}

// ── ZaloPay ──────────────────────────────────────────────────────────

// ZaloPayCallback handles ZaloPay's server-to-server notification.
func (h *PaymentCallbackHandler) ZaloPayCallback(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusOK, zaloAck{ReturnCode: -1, ReturnMessage: "read error"})
	}

	if _, err := h.process(c, payment.GatewayZaloPay, body); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			// -1 tells ZaloPay the mac did not verify; it will retry.
			return c.JSON(http.StatusOK, zaloAck{ReturnCode: -1, ReturnMessage: "mac not equal"})
		}
		return c.JSON(http.StatusOK, zaloAck{ReturnCode: 0, ReturnMessage: "error"})
	}
	return c.JSON(http.StatusOK, zaloAck{ReturnCode: 1, ReturnMessage: "success"})
}

// ── OnePay ───────────────────────────────────────────────────────────

// OnePayReturn handles OnePay's redirect, which doubles as its
// notification channel. The payload is the raw query string.
func (h *PaymentCallbackHandler) OnePayReturn(c echo.Context) error {
	return h.browserReturn(c, payment.GatewayOnePay, []byte(c.Request().URL.RawQuery))
}

// OnePayIPN handles OnePay's optional server-to-server notification.
func (h *PaymentCallbackHandler) OnePayIPN(c echo.Context) error {
	cb, err := h.process(c, payment.GatewayOnePay, []byte(c.Request().URL.RawQuery))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.JSON(http.StatusOK, providerAck{RspCode: "97", Message: "Invalid signature"})
		}
		return c.JSON(http.StatusOK, providerAck{RspCode: "99", Message: "Unknown error"})
	}
	if cb == nil {
		return c.JSON(http.StatusOK, providerAck{RspCode: "01", Message: "Order not found"})
	}
	return c.JSON(http.StatusOK, providerAck{RspCode: "00", Message: "Confirm success"})
}

// ── shared pipeline ──────────────────────────────────────────────────

// process verifies the callback through the gateway adapter, records
// the raw payload, and applies the state transition. A nil callback
// with nil error means the transaction was not found.
func (h *PaymentCallbackHandler) process(c echo.Context, gw payment.Gateway, payload []byte) (*payment.PaymentCallback, error) {
	ctx := c.Request().Context()

	cb, err := h.orchestrator.HandleCallback(ctx, payload, gw)

	log := &models.PaymentWebhookLog{
		Gateway:     string(gw),
		Payload:     string(payload),
		SignatureOK: err == nil,
		RemoteIP:    c.RealIP(),
	}
	if cb != nil {
		log.TransactionID = cb.TransactionID
	}
	if logErr := h.repos.Payment.LogWebhook(log); logErr != nil {
		h.logger.Error("webhook log write failed", zap.Error(logErr))
	}

	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			// Security event: tampering or key mismatch, not a decline.
			h.logger.Error("callback signature verification failed",
				zap.String("gateway", string(gw)),
				zap.String("remote_ip", c.RealIP()))
		} else {
			h.logger.Warn("malformed callback",
				zap.String("gateway", string(gw)), zap.Error(err))
		}
		return nil, err
	}

	txn, findErr := h.repos.Payment.FindByTransactionID(cb.TransactionID)
	if findErr != nil {
		h.logger.Warn("callback for unknown transaction",
			zap.String("gateway", string(gw)),
			zap.String("transaction_id", cb.TransactionID))
		return nil, nil
	}

	status := payment.StatusFailed
	if cb.Success {
		status = payment.StatusCompleted
	}
	updates := map[string]interface{}{
		"status":        string(status),
		"response_code": cb.ResponseCode,
	}
	if cb.ProviderOrderID != "" {
		updates["provider_order_id"] = cb.ProviderOrderID
	}
	if err := h.repos.Payment.UpdateByTransactionID(txn.TransactionID, updates); err != nil {
		h.logger.Error("transaction update failed",
			zap.String("transaction_id", txn.TransactionID), zap.Error(err))
		return nil, err
	}

	bookingStatus := models.BookingCancelled
	if cb.Success {
		bookingStatus = models.BookingConfirmed
	}
	if err := h.repos.Booking.UpdateStatus(txn.BookingID, bookingStatus); err != nil {
		h.logger.Error("booking update failed",
			zap.Uint("booking_id", txn.BookingID), zap.Error(err))
	}

	h.logger.Info("payment callback processed",
		zap.String("gateway", string(gw)),
		zap.String("transaction_id", cb.TransactionID),
		zap.Bool("success", cb.Success),
		zap.String("response_code", cb.ResponseCode))
	return cb, nil
}

// browserReturn runs the shared pipeline and redirects the customer to
// the result page instead of answering JSON.
func (h *PaymentCallbackHandler) browserReturn(c echo.Context, gw payment.Gateway, payload []byte) error {
	cb, err := h.process(c, gw, payload)
	if err != nil || cb == nil {
		return h.redirectResult(c, "", "failed")
	}
	result := "failed"
	if cb.Success {
		result = "completed"
	}
	return h.redirectResult(c, cb.TransactionID, result)
}

func (h *PaymentCallbackHandler) redirectResult(c echo.Context, transactionID, result string) error {
	q := url.Values{}
	q.Set("result", result)
	if transactionID != "" {
		q.Set("txn", transactionID)
	}
	return c.Redirect(http.StatusFound, h.resultURL+"?"+q.Encode())
}
