package handlers

import (
	"errors"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/orders"
	"github.com/example/smartwave/internal/services"
	"github.com/example/smartwave/internal/utils"
)

// PaymentHandler manages gateway payment attempts against orders.
type PaymentHandler struct {
	db       *gorm.DB
	razorpay *services.RazorpayService
	notify   *services.NotificationService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, razorpay *services.RazorpayService, notify *services.NotificationService) *PaymentHandler {
	return &PaymentHandler{db: db, razorpay: razorpay, notify: notify}
}

type createPaymentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// CreatePayment registers a gateway order for one of the user's orders
// and records a fresh payment attempt. An order that already has a
// failed attempt stays payable: each call opens a new attempt.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing order id")
	}

	order, err := h.findOrder(claims.Email, req.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}
	if !orders.AwaitingPayment(order.Status) {
		return fiber.NewError(fiber.StatusConflict, "order is not awaiting payment")
	}

	// Gateway amounts are integers in the smallest currency unit.
	amount := int64(math.Round(order.Total * 100))
	gatewayOrder, err := h.razorpay.CreateOrder(amount, "INR", order.ID)
	if err != nil {
		log.Printf("[Payment] gateway order creation failed for %s: %v", order.ID, err)
		return fiber.NewError(fiber.StatusBadGateway, "payment gateway error")
	}

	attempt := models.PaymentAttempt{
		UserEmail:      claims.Email,
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         order.Total,
		Currency:       gatewayOrder.Currency,
		Receipt:        order.ID,
		Status:         models.PaymentStatusCreated,
	}

	if err := h.db.Create(&attempt).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"attempt_id":       attempt.ID,
			"gateway_order_id": gatewayOrder.ID,
			"amount":           gatewayOrder.Amount,
			"currency":         gatewayOrder.Currency,
		},
	})
}

type verifyPaymentRequest struct {
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// VerifyPayment checks the signature the client echoed back after the
// gateway checkout. Success marks the order payment_made and completes
// the attempt; failure marks the attempt payment_failed for good, but
// the order itself stays payable through a new attempt.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid fields")
	}

	var attempt models.PaymentAttempt
	if err := h.db.Where("gateway_order_id = ? AND user_email = ?", req.GatewayOrderID, claims.Email).
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "payment attempt not found")
		}
		return err
	}

	if attempt.Status != models.PaymentStatusCreated {
		return fiber.NewError(fiber.StatusConflict, "payment attempt already decided")
	}

	if !h.razorpay.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		if err := h.db.Model(&attempt).Updates(map[string]interface{}{
			"status":          models.PaymentStatusFailed,
			"gateway_payment": req.PaymentID,
			"failure_reason":  "signature verification failed",
		}).Error; err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, "signature verification failed")
	}

	if err := h.db.Model(&attempt).Updates(map[string]interface{}{
		"status":          models.PaymentStatusCompleted,
		"gateway_payment": req.PaymentID,
		"signature":       req.Signature,
	}).Error; err != nil {
		return err
	}

	if err := h.markOrderPaid(claims.Email, attempt.OrderID); err != nil {
		// Attempt state is authoritative for reconciliation; the order
		// status mismatch is logged and left to the admin surface.
		log.Printf("[Payment] order %s not moved to payment_made: %v", attempt.OrderID, err)
	}

	go h.notify.NotifyPaymentCaptured(claims.Email, attempt.OrderID, attempt.Amount)

	return c.JSON(fiber.Map{"success": true, "message": "payment verified"})
}

// findOrder digs an order out of the user's preferences row.
func (h *PaymentHandler) findOrder(email, orderID string) (*models.Order, error) {
	var prefs models.UserPreferences
	err := h.db.Where("user_email = ?", email).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range prefs.Orders {
		if prefs.Orders[i].ID == orderID {
			return &prefs.Orders[i], nil
		}
	}
	return nil, nil
}

// markOrderPaid transitions an order to payment_made after a verified
// signature.
func (h *PaymentHandler) markOrderPaid(email, orderID string) error {
	var prefs models.UserPreferences
	if err := h.db.Where("user_email = ?", email).First(&prefs).Error; err != nil {
		return err
	}

	for i := range prefs.Orders {
		if prefs.Orders[i].ID != orderID {
			continue
		}
		next, err := orders.Transition(prefs.Orders[i].Status, orders.StatusPaymentMade)
		if err != nil {
			return err
		}
		prefs.Orders[i].Status = next

		return h.db.Model(&models.UserPreferences{}).
			Where("user_email = ?", email).
			Update("orders", prefs.Orders).Error
	}

	return errors.New("order not found in preferences")
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook reconciles gateway-pushed payment events against recorded
// attempts. Signature verification happens in the webhook middleware.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid webhook payload")
	}

	gatewayOrderID := payload.Payload.Payment.Entity.OrderID
	if gatewayOrderID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing order reference")
	}

	var attempt models.PaymentAttempt
	if err := h.db.Where("gateway_order_id = ?", gatewayOrderID).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "payment attempt not found")
		}
		return err
	}

	switch payload.Event {
	case "payment.captured":
		if attempt.Status == models.PaymentStatusCreated {
			if err := h.db.Model(&attempt).Updates(map[string]interface{}{
				"status":          models.PaymentStatusCompleted,
				"gateway_payment": payload.Payload.Payment.Entity.ID,
			}).Error; err != nil {
				return err
			}
			if err := h.markOrderPaid(attempt.UserEmail, attempt.OrderID); err != nil {
				log.Printf("[Payment] webhook: order %s not moved to payment_made: %v", attempt.OrderID, err)
			}
		}
	case "payment.failed":
		if attempt.Status == models.PaymentStatusCreated {
			if err := h.db.Model(&attempt).Updates(map[string]interface{}{
				"status":          models.PaymentStatusFailed,
				"gateway_payment": payload.Payload.Payment.Entity.ID,
				"failure_reason":  "gateway reported failure",
			}).Error; err != nil {
				return err
			}
		}
	default:
		// Unhandled events are acknowledged so the gateway stops retrying.
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListAttempts returns payment attempts, scoped to the caller unless
// they hold an admin role.
func (h *PaymentHandler) ListAttempts(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.PaymentAttempt{})

	if claims.Role == models.RoleAdmin || claims.Role == models.RoleSuperAdmin {
		if email := c.Query("user_email"); email != "" {
			query = query.Where("user_email = ?", models.NormalizeEmail(email))
		}
	} else {
		query = query.Where("user_email = ?", claims.Email)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var attempts []models.PaymentAttempt
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&attempts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    attempts,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
