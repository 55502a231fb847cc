package paylink_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mkhwld/store-backend/internal/config"
	"github.com/mkhwld/store-backend/internal/gateway/paylink"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *paylink.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return paylink.New(config.PayLinkConfig{
		BaseURL: srv.URL,
		APIKey:  "key-1",
	}, logger)
}

func TestCreateSession_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))

		var req paylink.SessionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.LineItems, 2)
		assert.Equal(t, int64(10000), req.LineItems[0].UnitAmount)
		assert.Equal(t, "order-1", req.Metadata["orderId"])
		assert.Equal(t, "https://shop.example.com/cart?success=1", req.SuccessURL)

		json.NewEncoder(w).Encode(map[string]string{
			"id":  "sess-1",
			"url": "https://pay.example.com/s/sess-1",
		})
	})

	resp, err := client.CreateSession(context.Background(), paylink.SessionRequest{
		LineItems: []paylink.LineItem{
			{Name: "Shirt", UnitAmount: 10000, Quantity: 1, Currency: "JOD"},
			{Name: "Hat", UnitAmount: 15000, Quantity: 1, Currency: "JOD"},
		},
		SuccessURL: "https://shop.example.com/cart?success=1",
		CancelURL:  "https://shop.example.com/cart?canceled=1",
		Metadata:   map[string]string{"orderId": "order-1"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", resp.ID)
	assert.Equal(t, "https://pay.example.com/s/sess-1", resp.URL)
}

func TestCreateSession_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "invalid_request", "message": "line_items required"},
		})
	})

	resp, err := client.CreateSession(context.Background(), paylink.SessionRequest{})
	assert.Nil(t, resp)

	var upstreamErr *apperr.UpstreamError
	assert.True(t, errors.As(err, &upstreamErr), "expected UpstreamError")
	assert.Equal(t, http.StatusUnprocessableEntity, upstreamErr.Status)
	assert.Equal(t, "invalid_request", upstreamErr.Code)
	assert.Equal(t, "line_items required", upstreamErr.Description)
}

func TestCreateSession_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream unavailable"))
	})

	resp, err := client.CreateSession(context.Background(), paylink.SessionRequest{})
	assert.Nil(t, resp)

	var upstreamErr *apperr.UpstreamError
	assert.True(t, errors.As(err, &upstreamErr), "expected UpstreamError")
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.Status)
}
