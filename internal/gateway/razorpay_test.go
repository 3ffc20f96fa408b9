package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"event":"payment.captured"}`)

	sig := SignBody(secret, body)
	assert.True(t, VerifySignature(secret, body, sig))

	// Tampered body must not verify against the original signature.
	assert.False(t, VerifySignature(secret, []byte(`{"event":"payment.failed"}`), sig))

	// Wrong secret must not verify.
	assert.False(t, VerifySignature("other-secret", body, sig))

	assert.False(t, VerifySignature(secret, body, ""))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key-id", user)
		assert.Equal(t, "key-secret", pass)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(999), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, 1, req.PaymentCapture)

		json.NewEncoder(w).Encode(OrderResponse{
			ID:       "order_test123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient("key-id", "key-secret", srv.URL)
	order, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		Amount:         999,
		Currency:       "INR",
		Receipt:        "order_1_1",
		PaymentCapture: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "order_test123", order.ID)
	assert.Equal(t, int64(999), order.Amount)
	assert.Equal(t, "order_1_1", order.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", "creds", srv.URL)
	_, err := client.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 100, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCreateOrderMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("key-id", "key-secret", srv.URL)
	_, err := client.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)
}
