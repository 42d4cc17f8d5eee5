package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/example/storefront/internal/models"
)

// These tests cover the validation that must reject input before any
// persistent mutation is attempted; the services short-circuit before
// touching the database on these paths.

func TestCreateOrderValidation(t *testing.T) {
	svc := NewOrderService(nil)
	ctx := context.Background()

	t.Run("empty item list is rejected", func(t *testing.T) {
		_, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: uuid.New()})

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("duplicate products are rejected", func(t *testing.T) {
		productID := uuid.New()
		_, err := svc.CreateOrder(ctx, CreateOrderInput{
			UserID: uuid.New(),
			Items: []OrderItemInput{
				{ProductID: productID, Quantity: 1},
				{ProductID: productID, Quantity: 2},
			},
		})

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := NewOrderService(nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "shipped")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "shipped")
}

func TestApplyAdjustmentsValidation(t *testing.T) {
	svc := NewOrderService(nil)
	negative := decimal.NewFromInt(-10)

	for _, adj := range []Adjustments{
		{Discount: &negative},
		{TaxAmount: &negative},
		{ShippingCost: &negative},
	} {
		_, err := svc.ApplyAdjustments(context.Background(), uuid.New(), adj)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

func TestValidateTransition(t *testing.T) {
	t.Run("terminal orders admit no status change", func(t *testing.T) {
		terminal := []string{models.OrderStatusDelivered, models.OrderStatusCancelled, models.OrderStatusReturned}
		for _, current := range terminal {
			err := validateTransition(current, models.OrderStatusPending, 1)

			var stateErr *StateError
			assert.ErrorAs(t, err, &stateErr, current)
		}
	})

	t.Run("re-stating the same terminal status is allowed", func(t *testing.T) {
		err := validateTransition(models.OrderStatusDelivered, models.OrderStatusDelivered, 1)
		assert.NoError(t, err)
	})

	t.Run("terminal status requires at least one item", func(t *testing.T) {
		err := validateTransition(models.OrderStatusConfirmed, models.OrderStatusDelivered, 0)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("non-terminal transitions pass", func(t *testing.T) {
		assert.NoError(t, validateTransition(models.OrderStatusPending, models.OrderStatusConfirmed, 0))
		assert.NoError(t, validateTransition(models.OrderStatusPaid, models.OrderStatusDelivered, 2))
	})
}

func TestValidateDiscount(t *testing.T) {
	t.Run("discount above subtotal is rejected", func(t *testing.T) {
		order := &models.Order{
			Subtotal: decimal.RequireFromString("100.00"),
			Discount: decimal.RequireFromString("150.00"),
		}

		err := validateDiscount(order)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("discount equal to subtotal passes", func(t *testing.T) {
		order := &models.Order{
			Subtotal: decimal.RequireFromString("100.00"),
			Discount: decimal.RequireFromString("100.00"),
		}
		assert.NoError(t, validateDiscount(order))
	})
}

func TestInventoryGuardQuantityFloor(t *testing.T) {
	var guard InventoryGuard

	for _, quantity := range []int{0, -3} {
		_, err := guard.CheckStock(nil, uuid.New(), quantity)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

func TestStockErrorMessage(t *testing.T) {
	err := &StockError{ProductName: "Keyboard", Requested: 5, Available: 2}
	assert.Contains(t, err.Error(), "Keyboard")
	assert.Contains(t, err.Error(), "2")
	assert.Contains(t, err.Error(), "5")
}
