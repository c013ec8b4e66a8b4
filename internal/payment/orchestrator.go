package payment

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Config bundles the per-gateway configuration records. A nil entry
// means the gateway is not configured and no adapter is built for it.
type Config struct {
	VNPay   *VNPayConfig
	MoMo    *MoMoConfig
	ZaloPay *ZaloPayConfig
	OnePay  *OnePayConfig
}

// GatewayHealth reports the registry state of one gateway.
type GatewayHealth struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Orchestrator dispatches uniform payment operations to the adapter
// registered for a gateway. The registry is built once at construction
// and read-only afterwards, so the orchestrator is safe for concurrent
// use. Running with zero configured gateways is a valid, explicit state
// (development mode); only a call naming an unconfigured gateway fails.
type Orchestrator struct {
	adapters   map[Gateway]Adapter
	initErrors map[Gateway]string
	logger     *zap.Logger
}

// NewOrchestrator builds adapters for every configured gateway. A
// misconfigured gateway fails construction of that one adapter only; the
// error is recorded and surfaced through HealthCheck.
func NewOrchestrator(cfg Config, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		adapters:   make(map[Gateway]Adapter),
		initErrors: make(map[Gateway]string),
		logger:     logger,
	}

	if cfg.VNPay != nil {
		o.add(GatewayVNPay, func() (Adapter, error) { return NewVNPayAdapter(*cfg.VNPay, logger) })
	}
	if cfg.MoMo != nil {
		o.add(GatewayMoMo, func() (Adapter, error) { return NewMoMoAdapter(*cfg.MoMo, logger) })
	}
	if cfg.ZaloPay != nil {
		o.add(GatewayZaloPay, func() (Adapter, error) { return NewZaloPayAdapter(*cfg.ZaloPay, logger) })
	}
	if cfg.OnePay != nil {
		o.add(GatewayOnePay, func() (Adapter, error) { return NewOnePayAdapter(*cfg.OnePay, logger) })
	}

	if len(o.adapters) == 0 {
		logger.Warn("no payment gateways configured, orchestrator running in development mode")
	} else {
		logger.Info("payment orchestrator ready", zap.Any("gateways", o.AvailableGateways()))
	}
	return o
}

func (o *Orchestrator) add(gw Gateway, build func() (Adapter, error)) {
	adapter, err := build()
	if err != nil {
		o.initErrors[gw] = err.Error()
		o.logger.Error("payment gateway construction failed",
			zap.String("gateway", string(gw)), zap.Error(err))
		return
	}
	o.adapters[gw] = adapter
}

// Register adds a prebuilt adapter. Used by tests and custom wiring.
func (o *Orchestrator) Register(adapter Adapter) {
	o.adapters[adapter.Name()] = adapter
}

// DevelopmentMode reports whether the orchestrator runs with zero
// configured gateways.
func (o *Orchestrator) DevelopmentMode() bool {
	return len(o.adapters) == 0
}

// AvailableGateways returns the configured gateway identifiers, sorted.
func (o *Orchestrator) AvailableGateways() []Gateway {
	out := make([]Gateway, 0, len(o.adapters))
	for gw := range o.adapters {
		out = append(out, gw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsAvailable reports whether an adapter is registered for the gateway.
// Availability means "configured", not "provider reachable".
func (o *Orchestrator) IsAvailable(gw Gateway) bool {
	_, ok := o.adapters[gw]
	return ok
}

// HealthCheck reports the registry state per known gateway. It never
// performs a live network call.
func (o *Orchestrator) HealthCheck() map[Gateway]GatewayHealth {
	out := make(map[Gateway]GatewayHealth, len(AllGateways()))
	for _, gw := range AllGateways() {
		out[gw] = GatewayHealth{
			Available: o.IsAvailable(gw),
			Error:     o.initErrors[gw],
		}
	}
	return out
}

func (o *Orchestrator) adapter(gw Gateway) (Adapter, error) {
	adapter, ok := o.adapters[gw]
	if !ok {
		return nil, &UnavailableGatewayError{Gateway: gw, Available: o.AvailableGateways()}
	}
	return adapter, nil
}

// CreatePayment dispatches payment creation to the selected gateway.
func (o *Orchestrator) CreatePayment(ctx context.Context, req PaymentRequest, gw Gateway) (*PaymentResponse, error) {
	adapter, err := o.adapter(gw)
	if err != nil {
		return nil, err
	}
	return adapter.CreatePayment(ctx, req), nil
}

// HandleCallback dispatches a raw provider callback. The adapter's
// distinction between "signature invalid" and "payment failed" is
// propagated unchanged.
func (o *Orchestrator) HandleCallback(ctx context.Context, payload []byte, gw Gateway) (*PaymentCallback, error) {
	adapter, err := o.adapter(gw)
	if err != nil {
		return nil, err
	}
	return adapter.HandleCallback(ctx, payload)
}

// QueryPaymentStatus dispatches a status query to the selected gateway.
func (o *Orchestrator) QueryPaymentStatus(ctx context.Context, transactionID string, gw Gateway) (*PaymentStatus, error) {
	adapter, err := o.adapter(gw)
	if err != nil {
		return nil, err
	}
	return adapter.QueryPaymentStatus(ctx, transactionID), nil
}

// RefundPayment dispatches a refund to the selected gateway.
func (o *Orchestrator) RefundPayment(ctx context.Context, req RefundRequest, gw Gateway) (*RefundResponse, error) {
	adapter, err := o.adapter(gw)
	if err != nil {
		return nil, err
	}
	return adapter.RefundPayment(ctx, req), nil
}

// VerifySignature dispatches signature verification to the selected gateway.
func (o *Orchestrator) VerifySignature(data map[string]string, signature string, gw Gateway) (bool, error) {
	adapter, err := o.adapter(gw)
	if err != nil {
		return false, err
	}
	return adapter.VerifySignature(data, signature), nil
}
