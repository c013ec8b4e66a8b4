package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
	"tripgo/internal/payment"
)

// PaymentHandler serves payment transaction endpoints.
type PaymentHandler struct {
	repos        *Repos
	orchestrator *payment.Orchestrator
	logger       *zap.Logger
}

func NewPaymentHandler(repos *Repos, orchestrator *payment.Orchestrator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{repos: repos, orchestrator: orchestrator, logger: logger}
}

// List returns transactions with pagination and search.
func (h *PaymentHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	txns, total, err := h.repos.Payment.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list payments failed", zap.Error(err))
		return errorResponse(c, "failed to list payments")
	}
	return successResponse(c, "ok", paginatedResponse(txns, total, page, limit))
}

// Get returns one transaction with its webhook audit trail.
func (h *PaymentHandler) Get(c echo.Context) error {
	transactionID := c.Param("txn_id")
	if transactionID == "" {
		return errorResponse(c, "transaction id is required")
	}

	txn, err := h.repos.Payment.FindByTransactionID(transactionID)
	if err != nil {
		return errorResponse(c, "transaction not found")
	}
	webhooks, _ := h.repos.Payment.FindWebhooksByTransactionID(transactionID)

	return successResponse(c, "ok", map[string]interface{}{
		"transaction": txn,
		"webhooks":    webhooks,
	})
}

// Query asks the gateway for the current provider-side state of a
// transaction and syncs the stored status.
func (h *PaymentHandler) Query(c echo.Context) error {
	transactionID := c.Param("txn_id")
	txn, err := h.repos.Payment.FindByTransactionID(transactionID)
	if err != nil {
		return errorResponse(c, "transaction not found")
	}

	gw, ok := payment.ParseGateway(txn.Gateway)
	if !ok {
		return errorResponse(c, "transaction has unknown gateway: "+txn.Gateway)
	}

	// ZaloPay queries by the provider-side order id, the others by ours.
	queryID := txn.TransactionID
	if gw == payment.GatewayZaloPay && txn.ProviderOrderID != "" {
		queryID = txn.ProviderOrderID
	}

	status, err := h.orchestrator.QueryPaymentStatus(c.Request().Context(), queryID, gw)
	if err != nil {
		return errorResponse(c, err.Error())
	}

	if string(status.Status) != txn.Status {
		_ = h.repos.Payment.UpdateByTransactionID(txn.TransactionID, map[string]interface{}{
			"status": string(status.Status),
		})
	}
	return successResponse(c, "ok", status)
}

// Refund attempts a refund of a completed transaction.
func (h *PaymentHandler) Refund(c echo.Context) error {
	transactionID := c.Param("txn_id")
	txn, err := h.repos.Payment.FindByTransactionID(transactionID)
	if err != nil {
		return errorResponse(c, "transaction not found")
	}
	if txn.Status != string(payment.StatusCompleted) {
		return errorResponse(c, "only completed transactions can be refunded")
	}

	var req models.RefundCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	amount, err := resolveRefundAmount(req.Amount, txn.Amount)
	if err != nil {
		return errorResponse(c, err.Error())
	}

	gw, ok := payment.ParseGateway(txn.Gateway)
	if !ok {
		return errorResponse(c, "transaction has unknown gateway: "+txn.Gateway)
	}

	resp, err := h.orchestrator.RefundPayment(c.Request().Context(), payment.RefundRequest{
		TransactionID:   txn.TransactionID,
		ProviderOrderID: txn.ProviderOrderID,
		Amount:          amount,
		Reason:          req.Reason,
	}, gw)
	if err != nil {
		return errorResponse(c, err.Error())
	}
	if !resp.Success {
		h.logger.Warn("refund declined",
			zap.String("transaction_id", txn.TransactionID),
			zap.String("gateway", txn.Gateway),
			zap.String("error", resp.Error))
		return errorResponse(c, "refund failed: "+resp.Error)
	}

	_ = h.repos.Payment.UpdateByTransactionID(txn.TransactionID, map[string]interface{}{
		"provider_refund_id": resp.ProviderRefundID,
	})
	return successResponse(c, "refund accepted", resp)
}

// resolveRefundAmount defaults a zero requested amount to the captured
// amount and rejects anything above it. Refunds never exceed what was
// captured.
func resolveRefundAmount(requested, captured int64) (int64, error) {
	if requested <= 0 {
		return captured, nil
	}
	if requested > captured {
		return 0, fmt.Errorf("refund amount %d exceeds captured amount %d", requested, captured)
	}
	return requested, nil
}

// Health exposes the gateway registry state.
func (h *PaymentHandler) Health(c echo.Context) error {
	return successResponse(c, "ok", map[string]interface{}{
		"development_mode": h.orchestrator.DevelopmentMode(),
		"gateways":         h.orchestrator.HealthCheck(),
	})
}
