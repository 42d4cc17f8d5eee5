package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/gateway"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

// PaymentService creates pending payments, obtains payable links from the
// gateway and reconciles asynchronous confirmation callbacks against orders.
type PaymentService struct {
	db       *gorm.DB
	gateway  gateway.PaymentGateway
	currency string
}

func NewPaymentService(db *gorm.DB, gw gateway.PaymentGateway, cfg *config.Config) *PaymentService {
	return &PaymentService{db: db, gateway: gw, currency: cfg.DefaultCurrency}
}

// CallbackPayload is the payment-confirmation webhook body.
type CallbackPayload struct {
	LinkID      string `json:"razorpay_payment_link_id"`
	ReferenceID string `json:"razorpay_payment_link_reference_id"`
	LinkStatus  string `json:"razorpay_payment_link_status"`
	PaymentID   string `json:"razorpay_payment_id"`
	Signature   string `json:"razorpay_signature"`
}

// Initiate creates a pending payment for the order's outstanding balance and
// obtains an external payable link. The whole operation is one transaction:
// if the gateway call fails or times out, no payment row survives.
func (s *PaymentService) Initiate(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, method string) (*models.Payment, string, error) {
	if !models.IsValidPaymentMethod(method) {
		return nil, "", newValidationError("unknown payment method %q", method)
	}
	if !amount.IsPositive() {
		return nil, "", newValidationError("payment amount must be greater than zero")
	}

	var payment models.Payment
	var checkoutURL string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}

		outstanding := order.Outstanding()
		if outstanding.IsZero() {
			return &StateError{Message: "order already fully paid"}
		}
		if amount.GreaterThan(outstanding) {
			return newValidationError("payment amount %s exceeds outstanding balance %s",
				amount.StringFixed(2), outstanding.StringFixed(2))
		}

		payment = models.Payment{
			OrderID:  order.ID,
			Gateway:  s.gateway.Name(),
			Method:   method,
			Amount:   amount,
			Currency: s.currency,
			Status:   models.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		link, err := s.gateway.CreatePayableLink(ctx,
			money.ToMinorUnits(amount), payment.Currency, payment.ID.String())
		if err != nil {
			return err
		}

		payment.LinkID = link.ID
		payment.RawResponse = link.Raw
		checkoutURL = link.CheckoutURL

		return tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]any{
			"link_id":      link.ID,
			"raw_response": link.Raw,
		}).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &payment, checkoutURL, nil
}

// Reconcile matches a verified callback to its payment and settles the order.
//
// The payment row is locked FOR UPDATE before the idempotence check, so two
// concurrent deliveries of the same callback credit the order exactly once;
// the loser of the race sees a finalized status and returns without writing.
func (s *PaymentService) Reconcile(ctx context.Context, payload CallbackPayload) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "link_id = ?", payload.LinkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "payment"}
			}
			return err
		}

		if payment.IsFinalized() {
			log.Printf("payment %s already finalized as %s, ignoring callback", payment.ID, payment.Status)
			return nil
		}

		if !s.gateway.VerifySignature(gateway.Callback{
			LinkID:      payload.LinkID,
			ReferenceID: payload.ReferenceID,
			Status:      payload.LinkStatus,
			PaymentID:   payload.PaymentID,
			Signature:   payload.Signature,
		}) {
			return &VerificationError{}
		}

		status := models.PaymentStatusFailed
		if payload.LinkStatus == "paid" {
			status = models.PaymentStatusSuccess
		}

		raw, _ := json.Marshal(payload)
		updates := map[string]any{
			"status":       status,
			"raw_response": raw,
		}
		if payload.PaymentID != "" {
			updates["transaction_id"] = payload.PaymentID
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		payment.Status = status
		if payload.PaymentID != "" {
			payment.TransactionID = &payload.PaymentID
		}

		if status != models.PaymentStatusSuccess {
			return nil
		}
		return s.creditOrder(tx, payment.OrderID, payment.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// creditOrder adds a settled payment's amount to the order's paid amount and
// recomputes the payment standing. Orders already in a terminal status keep
// their fulfillment status; the credit is still recorded.
func (s *PaymentService) creditOrder(tx *gorm.DB, orderID uuid.UUID, amount decimal.Decimal) error {
	var order models.Order
	if err := lockOrder(tx, orderID, &order); err != nil {
		return err
	}

	paid := order.PaidAmount.Add(amount)
	updates := map[string]any{"paid_amount": paid}
	if !models.IsTerminalOrderStatus(order.Status) {
		updates["status"] = settledOrderStatus(paid, order.Total)
	}

	return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error
}

// settledOrderStatus reports the payment standing after crediting: paid once
// the paid amount covers the total, partially paid otherwise.
func settledOrderStatus(paidAmount, total decimal.Decimal) string {
	if paidAmount.GreaterThanOrEqual(total) {
		return models.OrderStatusPaid
	}
	return models.OrderStatusPartiallyPaid
}
