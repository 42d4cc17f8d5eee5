package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		PaymentGateway:     "razorpay",
		RazorpayBaseURL:    baseURL,
		RazorpayKeyID:      "rzp_test_key",
		RazorpayKeySecret:  "rzp_test_secret",
		GatewayCallTimeout: 2 * time.Second,
	}
}

func TestNewSelectsAdapter(t *testing.T) {
	gw, err := New(testConfig("https://api.razorpay.com"))
	require.NoError(t, err)
	assert.Equal(t, "razorpay", gw.Name())

	cfg := testConfig("")
	cfg.PaymentGateway = "phonepe"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestCreatePayableLink(t *testing.T) {
	t.Run("returns external handle on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment_links", r.URL.Path)

			user, _, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(97000), body["amount"])
			assert.Equal(t, "INR", body["currency"])
			assert.Equal(t, "pay-ref-1", body["reference_id"])

			json.NewEncoder(w).Encode(map[string]string{
				"id":        "plink_123",
				"short_url": "https://rzp.io/l/abc",
				"status":    "created",
			})
		}))
		defer server.Close()

		gw := NewRazorpay(testConfig(server.URL))
		link, err := gw.CreatePayableLink(context.Background(), 97000, "INR", "pay-ref-1")

		require.NoError(t, err)
		assert.Equal(t, "plink_123", link.ID)
		assert.Equal(t, "https://rzp.io/l/abc", link.CheckoutURL)
		assert.NotEmpty(t, link.Raw)
	})

	t.Run("non-2xx surfaces as GatewayError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		gw := NewRazorpay(testConfig(server.URL))
		_, err := gw.CreatePayableLink(context.Background(), 100, "INR", "pay-ref-2")

		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, http.StatusUnauthorized, gwErr.Status)
	})

	t.Run("unreachable gateway surfaces as GatewayError", func(t *testing.T) {
		gw := NewRazorpay(testConfig("http://127.0.0.1:1"))
		_, err := gw.CreatePayableLink(context.Background(), 100, "INR", "pay-ref-3")

		var gwErr *GatewayError
		assert.ErrorAs(t, err, &gwErr)
	})
}

func TestVerifySignature(t *testing.T) {
	gw := NewRazorpay(testConfig(""))

	cb := Callback{
		LinkID:      "plink_123",
		ReferenceID: "pay-ref-1",
		Status:      "paid",
		PaymentID:   "pay_456",
	}

	t.Run("accepts a correctly signed callback", func(t *testing.T) {
		signed := cb
		signed.Signature = signCallback("rzp_test_secret", cb)
		assert.True(t, gw.VerifySignature(signed))
	})

	t.Run("rejects a tampered callback", func(t *testing.T) {
		tampered := cb
		tampered.Signature = signCallback("rzp_test_secret", cb)
		tampered.Status = "cancelled"
		assert.False(t, gw.VerifySignature(tampered))
	})

	t.Run("rejects a signature from the wrong secret", func(t *testing.T) {
		forged := cb
		forged.Signature = signCallback("other_secret", cb)
		assert.False(t, gw.VerifySignature(forged))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.False(t, gw.VerifySignature(cb))
	})
}
