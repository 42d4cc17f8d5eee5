package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/config"
)

// Razorpay creates hosted payment links and verifies callback signatures.
type Razorpay struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewRazorpay(cfg *config.Config) *Razorpay {
	timeout := cfg.GatewayCallTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Razorpay{
		baseURL:   strings.TrimRight(cfg.RazorpayBaseURL, "/"),
		keyID:     cfg.RazorpayKeyID,
		keySecret: cfg.RazorpayKeySecret,
		client:    &http.Client{Timeout: timeout},
	}
}

func (r *Razorpay) Name() string { return "razorpay" }

type razorpayLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

// CreatePayableLink creates a hosted payment link for the given amount in
// minor units. The reference id ties the link back to our payment record.
func (r *Razorpay) CreatePayableLink(ctx context.Context, amountMinorUnits int64, currency, referenceID string) (*PayableLink, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":       amountMinorUnits,
		"currency":     currency,
		"reference_id": referenceID,
		"description":  fmt.Sprintf("Payment %s", referenceID),
		"notify": map[string]bool{
			"sms":   true,
			"email": true,
		},
	})
	if err != nil {
		return nil, &GatewayError{Op: "create payment link", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/v1/payment_links", bytes.NewReader(payload))
	if err != nil {
		return nil, &GatewayError{Op: "create payment link", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "create payment link", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{Op: "create payment link", Status: resp.StatusCode}
	}

	var link razorpayLinkResponse
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, &GatewayError{Op: "create payment link", Err: err}
	}
	if link.ID == "" {
		return nil, &GatewayError{Op: "create payment link", Err: fmt.Errorf("empty link id in response")}
	}

	return &PayableLink{ID: link.ID, CheckoutURL: link.ShortURL, Raw: body}, nil
}

// VerifySignature checks the HMAC-SHA256 signature Razorpay attaches to
// payment-link callbacks: link_id|reference_id|status|payment_id keyed by
// the API secret.
func (r *Razorpay) VerifySignature(cb Callback) bool {
	if cb.Signature == "" {
		return false
	}
	expected := signCallback(r.keySecret, cb)
	return hmac.Equal([]byte(expected), []byte(cb.Signature))
}

func signCallback(secret string, cb Callback) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s|%s|%s", cb.LinkID, cb.ReferenceID, cb.Status, cb.PaymentID)
	return hex.EncodeToString(mac.Sum(nil))
}
