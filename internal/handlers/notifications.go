package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/services"
	"github.com/example/smartwave/internal/utils"
)

// NotificationHandler manages admin-sent notifications and the user's
// inbox.
type NotificationHandler struct {
	db     *gorm.DB
	notify *services.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(db *gorm.DB, notify *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notify: notify}
}

type sendNotificationRequest struct {
	UserEmail string `json:"user_email"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
	Broadcast bool   `json:"broadcast"`
}

// Send delivers a notification to one user or, with broadcast=true, to
// everyone (admin only).
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req sendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid fields")
	}

	if req.Broadcast {
		count, err := h.notify.Broadcast(&claims.UserID, req.Title, req.Body)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"recipients": count}})
	}

	if req.UserEmail == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_email or broadcast required")
	}

	var user models.User
	if err := h.db.Where("email = ?", models.NormalizeEmail(req.UserEmail)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.notify.Notify(user.ID, &claims.UserID, req.Title, req.Body); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"recipients": 1}})
}

// ListMine returns the caller's notifications, newest first.
func (h *NotificationHandler) ListMine(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Notification{}).Where("user_id = ?", claims.UserID)

	if c.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&notifications).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notifications,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// MarkRead stamps one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	now := time.Now()
	result := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, claims.UserID).
		Update("read_at", &now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "notification not found or already read")
	}

	return c.JSON(fiber.Map{"success": true, "message": "notification read"})
}
