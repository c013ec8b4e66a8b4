package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCallbackDeduper(t *testing.T) {
	d := newMemoryCallbackDeduper(time.Minute)
	ctx := context.Background()

	seen, err := d.Seen(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = d.Seen(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = d.Seen(ctx, "other")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryCallbackDeduperExpiry(t *testing.T) {
	d := newMemoryCallbackDeduper(10 * time.Millisecond)
	ctx := context.Background()

	_, err := d.Seen(ctx, "abc")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	seen, err := d.Seen(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestNewCallbackDeduperNoRedis(t *testing.T) {
	d, err := NewCallbackDeduper("", "", 0, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, d)

	seen, err := d.Seen(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestCallbackDedupMiddleware(t *testing.T) {
	e := echo.New()
	deduper := newMemoryCallbackDeduper(time.Minute)

	calls := 0
	h := CallbackDedup(deduper)(func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "handled")
	})

	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payment/zalopay/callback", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, h(c))
		return rec
	}

	rec := do(`{"data":"x","mac":"y"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "handled", rec.Body.String())
	assert.Equal(t, 1, calls)

	// identical retry is swallowed before the handler
	rec = do(`{"data":"x","mac":"y"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 1, calls)

	// different payload goes through
	rec = do(`{"data":"z","mac":"y"}`)
	assert.Equal(t, "handled", rec.Body.String())
	assert.Equal(t, 2, calls)
}

func TestCallbackDedupMiddlewarePreservesBody(t *testing.T) {
	e := echo.New()
	deduper := newMemoryCallbackDeduper(time.Minute)

	var got string
	h := CallbackDedup(deduper)(func(c echo.Context) error {
		var payload struct {
			Data string `json:"data"`
		}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		got = payload.Data
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/payment/momo/callback", strings.NewReader(`{"data":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	assert.Equal(t, "hello", got)
}

func TestCallbackDedupNilDeduper(t *testing.T) {
	e := echo.New()

	h := CallbackDedup(nil)(func(c echo.Context) error {
		return c.String(http.StatusOK, "handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/payment/vnpay/callback?vnp_TxnRef=a", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, "handled", rec.Body.String())
}
