package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/internal/models"
)

// OrderService owns the order aggregate: totals, the status state machine and
// the line-item collection. Every mutating operation runs inside a single
// database transaction so totals, status and items never observably diverge.
type OrderService struct {
	db        *gorm.DB
	inventory InventoryGuard
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItemInput is one requested product+quantity pair.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	UserID uuid.UUID
	Items  []OrderItemInput
}

// CreateOrder validates every line item against stock, freezes purchase
// prices, computes totals and persists the order in pending status.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, newValidationError("order must contain at least one product")
	}

	seen := make(map[uuid.UUID]bool, len(input.Items))
	for _, item := range input.Items {
		if seen[item.ProductID] {
			return nil, newValidationError("duplicate product in order items")
		}
		seen[item.ProductID] = true
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", input.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "user"}
			}
			return err
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, in := range input.Items {
			product, err := s.inventory.CheckStock(tx, in.ProductID, in.Quantity)
			if err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID:       product.ID,
				Quantity:        in.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		order = models.Order{
			UserID: input.UserID,
			Status: models.OrderStatusPending,
			Items:  items,
		}
		order.CalculateTotals()

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder loads an order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order"}
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus applies one status transition. Transitions out of a terminal
// status are rejected; reaching a terminal status requires at least one line
// item and stamps completed_at, while non-terminal transitions clear it.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, newValidationError("unknown order status %q", newStatus)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}

		var itemCount int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
			return err
		}
		if err := validateTransition(order.Status, newStatus, itemCount); err != nil {
			return err
		}

		updates := map[string]any{"status": newStatus}
		if models.IsTerminalOrderStatus(newStatus) {
			if !models.IsTerminalOrderStatus(order.Status) {
				now := time.Now()
				updates["completed_at"] = &now
			}
		} else {
			updates["completed_at"] = nil
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Preload("Items").First(&order, "id = ?", order.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Adjustments carries optional absolute-amount changes. Nil fields are left
// untouched; percentage conventions are not supported.
type Adjustments struct {
	Discount     *decimal.Decimal `json:"discount"`
	TaxAmount    *decimal.Decimal `json:"tax_amount"`
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
}

// ApplyAdjustments updates discount/tax/shipping and recomputes the total.
func (s *OrderService) ApplyAdjustments(ctx context.Context, orderID uuid.UUID, adj Adjustments) (*models.Order, error) {
	for name, v := range map[string]*decimal.Decimal{
		"discount": adj.Discount, "tax_amount": adj.TaxAmount, "shipping_cost": adj.ShippingCost,
	} {
		if v != nil && v.IsNegative() {
			return nil, newValidationError("%s cannot be negative", name)
		}
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}

		if adj.Discount != nil {
			order.Discount = *adj.Discount
		}
		if adj.TaxAmount != nil {
			order.TaxAmount = *adj.TaxAmount
		}
		if adj.ShippingCost != nil {
			order.ShippingCost = *adj.ShippingCost
		}

		return s.recalculateAndSave(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AddItem appends a product to the order, freezing its current price.
func (s *OrderService) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMutableOrder(tx, orderID, &order); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND product_id = ?", order.ID, productID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return newValidationError("product is already part of this order")
		}

		product, err := s.inventory.CheckStock(tx, productID, quantity)
		if err != nil {
			return err
		}

		item := models.OrderItem{
			OrderID:         order.ID,
			ProductID:       product.ID,
			Quantity:        quantity,
			PriceAtPurchase: product.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		return s.recalculateAndSave(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateItemQuantity changes a line item's quantity after re-checking stock.
// The frozen purchase price is never rewritten.
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMutableOrder(tx, orderID, &order); err != nil {
			return err
		}

		var item models.OrderItem
		if err := tx.First(&item, "id = ? AND order_id = ?", itemID, order.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order item"}
			}
			return err
		}

		if _, err := s.inventory.CheckStock(tx, item.ProductID, quantity); err != nil {
			return err
		}

		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).
			Update("quantity", quantity).Error; err != nil {
			return err
		}

		return s.recalculateAndSave(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveItem deletes a line item and recomputes totals.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMutableOrder(tx, orderID, &order); err != nil {
			return err
		}

		res := tx.Where("id = ? AND order_id = ?", itemID, order.ID).
			Delete(&models.OrderItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Entity: "order item"}
		}

		return s.recalculateAndSave(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order; owned line items go with it.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", orderID).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Entity: "order"}
		}
		return nil
	})
}

// recalculateAndSave reloads the order's items inside the transaction,
// recomputes totals, enforces discount <= subtotal and persists the
// financial columns.
func (s *OrderService) recalculateAndSave(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}
	order.Items = items
	order.CalculateTotals()

	if err := validateDiscount(order); err != nil {
		return err
	}

	return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
		"subtotal":      order.Subtotal,
		"discount":      order.Discount,
		"tax_amount":    order.TaxAmount,
		"shipping_cost": order.ShippingCost,
		"total":         order.Total,
	}).Error
}

// validateTransition enforces the status state machine: terminal statuses
// admit no further transitions, and an order cannot reach a terminal status
// with no line items.
func validateTransition(current, next string, itemCount int64) error {
	if models.IsTerminalOrderStatus(current) && next != current {
		return &StateError{Message: "cannot change status of a " + current + " order"}
	}
	if models.IsTerminalOrderStatus(next) && itemCount == 0 {
		return newValidationError("orders marked as delivered, cancelled or returned must include at least one product")
	}
	return nil
}

// validateDiscount rejects a discount exceeding the computed subtotal.
func validateDiscount(order *models.Order) error {
	if order.Discount.GreaterThan(order.Subtotal) {
		return newValidationError("discount cannot exceed order subtotal")
	}
	return nil
}

// lockOrder loads the order row under FOR UPDATE.
func lockOrder(tx *gorm.DB, orderID uuid.UUID, order *models.Order) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "order"}
		}
		return err
	}
	return nil
}

// lockMutableOrder is lockOrder plus the rule that line items of an order in
// a terminal status can no longer be touched.
func lockMutableOrder(tx *gorm.DB, orderID uuid.UUID, order *models.Order) error {
	if err := lockOrder(tx, orderID, order); err != nil {
		return err
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return newValidationError("cannot modify items of a %s order", order.Status)
	}
	return nil
}
