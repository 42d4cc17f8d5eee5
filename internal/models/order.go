package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/money"
)

// Order statuses. The terminal set admits no further transitions.
const (
	OrderStatusPending       = "pending"
	OrderStatusConfirmed     = "confirmed"
	OrderStatusPartiallyPaid = "partially_paid"
	OrderStatusPaid          = "paid"
	OrderStatusDelivered     = "delivered"
	OrderStatusCancelled     = "cancelled"
	OrderStatusReturned      = "returned"
)

// IsTerminalOrderStatus reports whether status is delivered, cancelled or returned.
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// IsValidOrderStatus reports whether status is one of the known states.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPartiallyPaid,
		OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// Order is one customer purchase transaction. Monetary columns are fixed-point
// decimal(12,2); Total is always derived from the other fields, never written
// directly by callers.
type Order struct {
	BaseModel
	UserID       uuid.UUID       `gorm:"type:uuid;index:idx_orders_user_created" json:"user_id"`
	User         *User           `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Items        []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax_amount"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"shipping_cost"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"paid_amount"`
	Status       string          `gorm:"type:varchar(15);default:'pending';index" json:"status"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

// CalculateTotals recomputes subtotal and total from the loaded line items and
// the current adjustments. Idempotent: identical inputs yield identical totals.
func (o *Order) CalculateTotals() {
	lineTotals := make([]decimal.Decimal, len(o.Items))
	for i := range o.Items {
		lineTotals[i] = o.Items[i].LineTotal()
	}
	o.Subtotal = money.Sum(lineTotals...)
	o.Total = money.ClampNonNegative(
		o.Subtotal.Sub(o.Discount).Add(o.TaxAmount).Add(o.ShippingCost))
}

// Outstanding returns total minus what has already been paid, floored at zero.
func (o *Order) Outstanding() decimal.Decimal {
	return money.ClampNonNegative(o.Total.Sub(o.PaidAmount))
}

// OrderItem is a product quantity within one order. The unit price is frozen
// from the product's price on first persist and never changes afterwards.
type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_order_items_order_product" json:"order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_order_items_order_product" json:"product_id"`
	Product         *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity        int             `gorm:"not null;default:1" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_at_purchase"`
}

// LineTotal is quantity times the frozen purchase price. Derived, never stored.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
