package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses. Pending transitions to success or failed exactly once.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment methods accepted at initiation.
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodUPI    = "upi"
	PaymentMethodCard   = "card"
)

// IsValidPaymentMethod reports whether method is one of the accepted methods.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodWallet, PaymentMethodUPI, PaymentMethodCard:
		return true
	}
	return false
}

// Payment is one attempt to collect money against an order.
//
// LinkID is the gateway's payable-link reference, persisted at initiation and
// used to match incoming callbacks. TransactionID is the gateway's payment id,
// set once on finalization and unique from then on.
type Payment struct {
	BaseModel
	OrderID       uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	Order         *Order          `gorm:"constraint:OnDelete:CASCADE" json:"order,omitempty"`
	Gateway       string          `gorm:"type:varchar(50)" json:"gateway"`
	Method        string          `gorm:"type:varchar(20)" json:"method"`
	LinkID        string          `gorm:"index" json:"link_id"`
	TransactionID *string         `gorm:"uniqueIndex" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Currency      string          `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status        string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RawResponse   []byte          `gorm:"type:jsonb" json:"raw_response,omitempty"`
}

// IsFinalized reports whether the payment has left pending. Finalization is
// one-way: neither success nor failed is ever rewritten by a later callback.
func (p *Payment) IsFinalized() bool {
	return p.Status != PaymentStatusPending
}
