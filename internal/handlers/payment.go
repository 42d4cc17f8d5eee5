package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// PaymentHandler manages payment initiation and the gateway webhook.
type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
}

func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments}
}

// Amounts arrive as major-unit strings ("970.50") so callers never send
// binary floats.
type createPaymentRequest struct {
	OrderID string `json:"order_id"`
	Amount  string `json:"amount"`
	Method  string `json:"method"`
}

// CreatePayment initiates a payment for an order the customer owns and
// returns the hosted checkout link.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
	}
	if req.Amount == "" {
		return fiber.NewError(fiber.StatusBadRequest, "amount is required")
	}
	amount, ok := money.FromMajor(req.Amount)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	}

	var order models.Order
	if err := h.db.Select("id").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	payment, checkoutURL, err := h.payments.Initiate(c.Context(), orderID, amount, req.Method)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"payment_id":   payment.ID,
			"link_id":      payment.LinkID,
			"amount":       payment.Amount,
			"currency":     payment.Currency,
			"payment_link": checkoutURL,
		},
	})
}

// Callback handles payment-confirmation webhooks: verify, then reconcile.
// Duplicate deliveries are absorbed with a 200 response.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	var payload services.CallbackPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.LinkID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "payment link id missing")
	}

	log.Printf("payment callback received for link %s", payload.LinkID)

	payment, err := h.payments.Reconcile(c.Context(), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": payment.Status})
}

// ListPayments returns the authenticated customer's payments.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Payment{}).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID)

	if orderID := c.Query("order_id"); orderID != "" {
		parsed, err := uuid.Parse(orderID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
		}
		query = query.Where("payments.order_id = ?", parsed)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("payments.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var payments []models.Payment
	if err := query.Order("payments.created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&payments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
