package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/orders"
	"github.com/example/smartwave/internal/store"
)

// OrderHandler manages order history endpoints. Orders are immutable
// snapshots inside the owning user's preferences row; only status moves,
// and only along the transition table.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

func (h *OrderHandler) loadOrders(email string) ([]models.Order, error) {
	var prefs models.UserPreferences
	err := h.db.Where("user_email = ?", email).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs.Orders, nil
}

// ListOrders returns the authenticated user's order history, newest
// first, optionally filtered by status.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := h.loadOrders(claims.Email)
	if err != nil {
		return err
	}

	status := c.Query("status")
	result := make([]models.Order, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		if status == "" || history[i].Status == status {
			result = append(result, history[i])
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// GetOrder returns one order from the user's history.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := h.loadOrders(claims.Email)
	if err != nil {
		return err
	}

	id := c.Params("id")
	for _, order := range history {
		if order.ID == id {
			return c.JSON(fiber.Map{"success": true, "data": order})
		}
	}

	return fiber.NewError(fiber.StatusNotFound, "order not found")
}

type saveOrderRequest struct {
	Status          string            `json:"status"`
	Items           []cartItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress json.RawMessage   `json:"shippingAddress"`
}

// SaveOrder appends a caller-built order to the history. The payment
// flow uses this to park orders in pre-checkout states
// (pending_payment, address_added) before the cart-based checkout runs.
func (h *OrderHandler) SaveOrder(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req saveOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order items")
	}

	status := req.Status
	if status == "" {
		status = orders.StatusPending
	}
	if !orders.PreCheckout(status) {
		return fiber.NewError(fiber.StatusBadRequest, "order status must be a pre-checkout status")
	}

	items := make([]models.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		item := it.item()
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}

	order, err := store.Checkout(items, req.ShippingAddress)
	if err != nil {
		return err
	}
	order.Status = status

	var prefs models.UserPreferences
	err = h.db.Where("user_email = ?", claims.Email).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prefs = models.UserPreferences{UserEmail: claims.Email}
		if err := h.db.Create(&prefs).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := h.db.Model(&models.UserPreferences{}).
		Where("user_email = ?", claims.Email).
		Update("orders", append(prefs.Orders, order)).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderStatusRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Status    string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order to a new status (admin only). The
// transition table is enforced; payment_made cannot be reached from
// here.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid fields")
	}
	if req.Status == orders.StatusPaymentMade {
		return fiber.NewError(fiber.StatusBadRequest, "payment_made is set by payment verification only")
	}

	email := models.NormalizeEmail(req.UserEmail)
	id := c.Params("id")

	var prefs models.UserPreferences
	if err := h.db.Where("user_email = ?", email).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	updated := false
	for i := range prefs.Orders {
		if prefs.Orders[i].ID != id {
			continue
		}
		next, err := orders.Transition(prefs.Orders[i].Status, req.Status)
		if err != nil {
			if errors.Is(err, orders.ErrUnknownStatus) {
				return fiber.NewError(fiber.StatusBadRequest, "unknown order status")
			}
			return fiber.NewError(fiber.StatusConflict, "invalid status transition")
		}
		prefs.Orders[i].Status = next
		updated = true
		break
	}

	if !updated {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	if err := h.db.Model(&models.UserPreferences{}).
		Where("user_email = ?", email).
		Update("orders", prefs.Orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "order status updated"})
}
