package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderCalculateTotals(t *testing.T) {
	t.Run("subtotal minus discount plus tax and shipping", func(t *testing.T) {
		order := Order{
			Items: []OrderItem{
				{Quantity: 2, PriceAtPurchase: dec("300.00")},
				{Quantity: 4, PriceAtPurchase: dec("100.00")},
			},
			Discount:     dec("100.00"),
			TaxAmount:    dec("50.00"),
			ShippingCost: dec("20.00"),
		}

		order.CalculateTotals()

		assert.Equal(t, "1000.00", order.Subtotal.StringFixed(2))
		assert.Equal(t, "970.00", order.Total.StringFixed(2))
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		order := Order{
			Items:     []OrderItem{{Quantity: 3, PriceAtPurchase: dec("19.99")}},
			TaxAmount: dec("5.00"),
		}

		order.CalculateTotals()
		first := order.Total
		order.CalculateTotals()

		assert.True(t, order.Total.Equal(first))
	})

	t.Run("total never goes negative", func(t *testing.T) {
		order := Order{
			Items:    []OrderItem{{Quantity: 1, PriceAtPurchase: dec("10.00")}},
			Discount: dec("50.00"),
		}

		order.CalculateTotals()

		assert.True(t, order.Total.IsZero())
	})

	t.Run("empty order has zero totals", func(t *testing.T) {
		var order Order
		order.CalculateTotals()
		assert.True(t, order.Subtotal.IsZero())
		assert.True(t, order.Total.IsZero())
	})
}

func TestOrderOutstanding(t *testing.T) {
	order := Order{Total: dec("1000.00"), PaidAmount: dec("600.00")}
	assert.Equal(t, "400.00", order.Outstanding().StringFixed(2))

	overpaid := Order{Total: dec("100.00"), PaidAmount: dec("150.00")}
	assert.True(t, overpaid.Outstanding().IsZero())
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{
		ProductID:       uuid.New(),
		Quantity:        3,
		PriceAtPurchase: dec("19.99"),
	}
	assert.Equal(t, "59.97", item.LineTotal().StringFixed(2))
}

func TestOrderStatusHelpers(t *testing.T) {
	terminal := []string{OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned}
	for _, status := range terminal {
		assert.True(t, IsTerminalOrderStatus(status), status)
		assert.True(t, IsValidOrderStatus(status), status)
	}

	nonTerminal := []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusPartiallyPaid, OrderStatusPaid}
	for _, status := range nonTerminal {
		assert.False(t, IsTerminalOrderStatus(status), status)
		assert.True(t, IsValidOrderStatus(status), status)
	}

	assert.False(t, IsValidOrderStatus("shipped"))
}

func TestPaymentFinalization(t *testing.T) {
	payment := Payment{Status: PaymentStatusPending}
	assert.False(t, payment.IsFinalized())

	payment.Status = PaymentStatusSuccess
	assert.True(t, payment.IsFinalized())

	payment.Status = PaymentStatusFailed
	assert.True(t, payment.IsFinalized())
}

func TestPaymentMethodValidation(t *testing.T) {
	assert.True(t, IsValidPaymentMethod(PaymentMethodWallet))
	assert.True(t, IsValidPaymentMethod(PaymentMethodUPI))
	assert.True(t, IsValidPaymentMethod(PaymentMethodCard))
	assert.False(t, IsValidPaymentMethod("cheque"))
}
