package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "5000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "order-1", r.PostForm.Get("metadata[order_id]"))
		assert.Equal(t, "test", r.PostForm.Get("metadata[environment]"))
		assert.NotEmpty(t, r.PostForm.Get("expires_at"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_123","url":"https://pay.example.com/cs_123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123")
	session, err := client.CreateSession(context.Background(), SessionParams{
		AmountMinor: 5000,
		Currency:    "usd",
		ProductName: "Go Conf - VIP",
		Quantity:    2,
		OrderID:     "order-1",
		Environment: "test",
		SuccessURL:  "http://localhost/payments/success?order_id=order-1",
		CancelURL:   "http://localhost/payments/cancel?order_id=order-1",
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_123", session.RedirectURL)
}

func TestClient_CreateSession_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_123")
	_, err := client.CreateSession(context.Background(), SessionParams{AmountMinor: 100, Currency: "usd", Quantity: 1})

	assert.Error(t, err)
}

func TestClient_CreateSession_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "sk_test_123")
	_, err := client.CreateSession(context.Background(), SessionParams{AmountMinor: 100, Currency: "usd", Quantity: 1})

	assert.Error(t, err)
}
