// Package gateway isolates the external payment processor behind a narrow
// interface: create a payable link for an amount, and verify that a callback
// really came from the processor.
package gateway

import (
	"context"
	"fmt"

	"github.com/example/storefront/internal/config"
)

// PayableLink is the external handle returned when a payment is initiated.
type PayableLink struct {
	ID          string
	CheckoutURL string
	Raw         []byte
}

// Callback holds the signed fields of a payment-confirmation callback.
type Callback struct {
	LinkID      string
	ReferenceID string
	Status      string
	PaymentID   string
	Signature   string
}

// PaymentGateway is implemented once per payment processor.
//
// VerifySignature returns false for an invalid signature rather than an
// error: a bad signature is an expected outcome, not a fault.
type PaymentGateway interface {
	Name() string
	CreatePayableLink(ctx context.Context, amountMinorUnits int64, currency, referenceID string) (*PayableLink, error)
	VerifySignature(cb Callback) bool
}

// GatewayError marks a failure talking to the external processor. Callers may
// retry with backoff; this package never retries internally.
type GatewayError struct {
	Op     string
	Status int
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s failed: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// New selects the configured gateway adapter. Selection happens once at
// startup; the adapter is injected as a dependency, never looked up per call.
func New(cfg *config.Config) (PaymentGateway, error) {
	switch cfg.PaymentGateway {
	case "razorpay":
		return NewRazorpay(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported payment gateway %q", cfg.PaymentGateway)
	}
}
