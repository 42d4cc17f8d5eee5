package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
)

func TestInitiateValidation(t *testing.T) {
	svc := NewPaymentService(nil, nil, &config.Config{DefaultCurrency: "INR"})
	ctx := context.Background()

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, _, err := svc.Initiate(ctx, uuid.New(), decimal.NewFromInt(100), "cheque")

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
			_, _, err := svc.Initiate(ctx, uuid.New(), amount, models.PaymentMethodCard)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		}
	})
}

func TestSettledOrderStatus(t *testing.T) {
	total := decimal.RequireFromString("1000.00")

	t.Run("partial payment", func(t *testing.T) {
		status := settledOrderStatus(decimal.RequireFromString("600.00"), total)
		assert.Equal(t, models.OrderStatusPartiallyPaid, status)
	})

	t.Run("exact settlement", func(t *testing.T) {
		status := settledOrderStatus(total, total)
		assert.Equal(t, models.OrderStatusPaid, status)
	})

	t.Run("overpayment still reads as paid", func(t *testing.T) {
		status := settledOrderStatus(decimal.RequireFromString("1200.00"), total)
		assert.Equal(t, models.OrderStatusPaid, status)
	})
}

func TestVerificationErrorMessage(t *testing.T) {
	err := &VerificationError{}
	assert.Contains(t, err.Error(), "signature")
}
