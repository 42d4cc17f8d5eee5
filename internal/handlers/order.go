package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// OrderHandler manages order endpoints. All mutations go through the order
// service so they run inside one transaction.
type OrderHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders}
}

type createOrderRequest struct {
	Items []services.OrderItemInput `json:"items"`
}

// CreateOrder places an order for the authenticated customer.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.CreateOrder(c.Context(), services.CreateOrderInput{
		UserID: userID,
		Items:  req.Items,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns orders for the authenticated customer.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated customer.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := h.ownedOrderID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.GetOrder(c.Context(), orderID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

type patchOrderRequest struct {
	Status       string           `json:"status"`
	Discount     *decimal.Decimal `json:"discount"`
	TaxAmount    *decimal.Decimal `json:"tax_amount"`
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
}

// PatchOrder applies a status transition and/or adjustment changes.
func (h *OrderHandler) PatchOrder(c *fiber.Ctx) error {
	orderID, err := h.ownedOrderID(c)
	if err != nil {
		return err
	}

	var req patchOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var order *models.Order
	if req.Status != "" {
		if order, err = h.orders.UpdateStatus(c.Context(), orderID, req.Status); err != nil {
			return err
		}
	}
	if req.Discount != nil || req.TaxAmount != nil || req.ShippingCost != nil {
		if order, err = h.orders.ApplyAdjustments(c.Context(), orderID, services.Adjustments{
			Discount:     req.Discount,
			TaxAmount:    req.TaxAmount,
			ShippingCost: req.ShippingCost,
		}); err != nil {
			return err
		}
	}

	if order == nil {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// DeleteOrder removes an order together with its line items.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID, err := h.ownedOrderID(c)
	if err != nil {
		return err
	}

	if err := h.orders.DeleteOrder(c.Context(), orderID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to an order.
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	orderID, err := h.ownedOrderID(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	order, err := h.orders.AddItem(c.Context(), orderID, productID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem changes a line item's quantity.
func (h *OrderHandler) UpdateItem(c *fiber.Ctx) error {
	orderID, err := h.ownedOrderID(c)
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.UpdateItemQuantity(c.Context(), orderID, itemID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// RemoveItem deletes a line item from an order.
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	orderID, err := h.ownedOrderID(c)
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	order, err := h.orders.RemoveItem(c.Context(), orderID, itemID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ownedOrderID parses the path id and confirms the order belongs to the
// authenticated customer.
func (h *OrderHandler) ownedOrderID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Select("id").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return uuid.Nil, err
	}
	return orderID, nil
}
