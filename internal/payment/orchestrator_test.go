package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAdapter records call counts so tests can assert that unavailable
// gateways never reach an adapter.
type mockAdapter struct {
	name          Gateway
	createCalls   int
	callbackCalls int
	queryCalls    int
	refundCalls   int
	verifyCalls   int
}

var _ Adapter = (*mockAdapter)(nil)

func (m *mockAdapter) Name() Gateway { return m.name }

func (m *mockAdapter) CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse {
	m.createCalls++
	return &PaymentResponse{Success: true, TransactionID: "MOCK_1_a", PaymentURL: "https://mock/pay"}
}

func (m *mockAdapter) HandleCallback(ctx context.Context, payload []byte) (*PaymentCallback, error) {
	m.callbackCalls++
	return &PaymentCallback{Success: true, TransactionID: "MOCK_1_a"}, nil
}

func (m *mockAdapter) QueryPaymentStatus(ctx context.Context, transactionID string) *PaymentStatus {
	m.queryCalls++
	return &PaymentStatus{TransactionID: transactionID, Status: StatusCompleted}
}

func (m *mockAdapter) RefundPayment(ctx context.Context, req RefundRequest) *RefundResponse {
	m.refundCalls++
	return &RefundResponse{Success: true, RefundAmount: req.Amount}
}

func (m *mockAdapter) VerifySignature(data map[string]string, signature string) bool {
	m.verifyCalls++
	return signature == "valid"
}

func newMockedOrchestrator(gateways ...Gateway) (*Orchestrator, map[Gateway]*mockAdapter) {
	o := NewOrchestrator(Config{}, zap.NewNop())
	mocks := make(map[Gateway]*mockAdapter, len(gateways))
	for _, gw := range gateways {
		m := &mockAdapter{name: gw}
		o.Register(m)
		mocks[gw] = m
	}
	return o, mocks
}

func TestOrchestrator_DevelopmentMode(t *testing.T) {
	o := NewOrchestrator(Config{}, zap.NewNop())

	assert.True(t, o.DevelopmentMode())
	assert.Empty(t, o.AvailableGateways())
	assert.False(t, o.IsAvailable(GatewayVNPay))

	_, err := o.CreatePayment(context.Background(), PaymentRequest{
		BookingID: "B1", Amount: 100, Currency: "VND",
	}, GatewayVNPay)
	require.Error(t, err)

	var unavailable *UnavailableGatewayError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, GatewayVNPay, unavailable.Gateway)
	assert.Empty(t, unavailable.Available)
}

func TestOrchestrator_ConstructionErrorIsIsolated(t *testing.T) {
	// One bad gateway config must not take the others down.
	o := NewOrchestrator(Config{
		VNPay: &VNPayConfig{
			TmnCode:    "TESTTMN1",
			HashSecret: "VNPAYSECRETKEY",
			PayURL:     "https://pay.example.com/vpcpay.html",
			APIURL:     "https://api.example.com/transaction",
		},
		MoMo: &MoMoConfig{PartnerCode: "MOMOTEST"}, // missing keys
	}, zap.NewNop())

	assert.False(t, o.DevelopmentMode())
	assert.True(t, o.IsAvailable(GatewayVNPay))
	assert.False(t, o.IsAvailable(GatewayMoMo))

	health := o.HealthCheck()
	assert.True(t, health[GatewayVNPay].Available)
	assert.Empty(t, health[GatewayVNPay].Error)
	assert.False(t, health[GatewayMoMo].Available)
	assert.NotEmpty(t, health[GatewayMoMo].Error)
	// Unconfigured gateways report unavailable without an error.
	assert.False(t, health[GatewayZaloPay].Available)
	assert.Empty(t, health[GatewayZaloPay].Error)
}

func TestOrchestrator_DispatchRoutesToNamedGateway(t *testing.T) {
	o, mocks := newMockedOrchestrator(GatewayVNPay, GatewayMoMo)
	ctx := context.Background()

	resp, err := o.CreatePayment(ctx, PaymentRequest{BookingID: "B1", Amount: 100, Currency: "VND"}, GatewayMoMo)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	cb, err := o.HandleCallback(ctx, []byte("x=1"), GatewayMoMo)
	require.NoError(t, err)
	assert.True(t, cb.Success)

	status, err := o.QueryPaymentStatus(ctx, "MOCK_1_a", GatewayMoMo)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status.Status)

	refund, err := o.RefundPayment(ctx, RefundRequest{TransactionID: "MOCK_1_a", Amount: 50}, GatewayMoMo)
	require.NoError(t, err)
	assert.True(t, refund.Success)

	ok, err := o.VerifySignature(map[string]string{"a": "1"}, "valid", GatewayMoMo)
	require.NoError(t, err)
	assert.True(t, ok)

	momo := mocks[GatewayMoMo]
	assert.Equal(t, 1, momo.createCalls)
	assert.Equal(t, 1, momo.callbackCalls)
	assert.Equal(t, 1, momo.queryCalls)
	assert.Equal(t, 1, momo.refundCalls)
	assert.Equal(t, 1, momo.verifyCalls)

	// The other registered adapter saw no traffic.
	vnpay := mocks[GatewayVNPay]
	assert.Zero(t, vnpay.createCalls+vnpay.callbackCalls+vnpay.queryCalls+vnpay.refundCalls+vnpay.verifyCalls)
}

func TestOrchestrator_UnavailableGatewayShortCircuits(t *testing.T) {
	o, mocks := newMockedOrchestrator(GatewayVNPay)
	ctx := context.Background()

	_, err := o.CreatePayment(ctx, PaymentRequest{BookingID: "B1", Amount: 100, Currency: "VND"}, GatewayZaloPay)
	require.Error(t, err)

	var unavailable *UnavailableGatewayError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, GatewayZaloPay, unavailable.Gateway)
	assert.Equal(t, []Gateway{GatewayVNPay}, unavailable.Available)

	_, err = o.HandleCallback(ctx, []byte("x=1"), GatewayZaloPay)
	assert.Error(t, err)
	_, err = o.QueryPaymentStatus(ctx, "X_1_a", GatewayZaloPay)
	assert.Error(t, err)
	_, err = o.RefundPayment(ctx, RefundRequest{TransactionID: "X_1_a", Amount: 1}, GatewayZaloPay)
	assert.Error(t, err)
	_, err = o.VerifySignature(nil, "valid", GatewayZaloPay)
	assert.Error(t, err)

	// Nothing leaked through to the registered adapter.
	vnpay := mocks[GatewayVNPay]
	assert.Zero(t, vnpay.createCalls+vnpay.callbackCalls+vnpay.queryCalls+vnpay.refundCalls+vnpay.verifyCalls)
}

func TestOrchestrator_AvailableGatewaysSorted(t *testing.T) {
	o, _ := newMockedOrchestrator(GatewayZaloPay, GatewayMoMo, GatewayVNPay, GatewayOnePay)

	assert.Equal(t, []Gateway{GatewayMoMo, GatewayOnePay, GatewayVNPay, GatewayZaloPay}, o.AvailableGateways())
}
