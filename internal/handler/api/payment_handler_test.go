package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRefundAmount(t *testing.T) {
	// Zero or negative requests default to the full captured amount.
	amount, err := resolveRefundAmount(0, 150000)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), amount)

	amount, err = resolveRefundAmount(-1, 150000)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), amount)

	// Partial and full refunds pass through.
	amount, err = resolveRefundAmount(100000, 150000)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), amount)

	amount, err = resolveRefundAmount(150000, 150000)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), amount)

	// Over-refunds are rejected before anything reaches a gateway.
	_, err = resolveRefundAmount(150001, 150000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds captured amount")
}
