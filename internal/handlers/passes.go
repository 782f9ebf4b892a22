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

// PassHandler manages admin passes and user membership requests.
type PassHandler struct {
	db     *gorm.DB
	notify *services.NotificationService
}

// NewPassHandler constructs PassHandler.
func NewPassHandler(db *gorm.DB, notify *services.NotificationService) *PassHandler {
	return &PassHandler{db: db, notify: notify}
}

type createPassRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// CreatePass creates a pass owned by the calling admin.
func (h *PassHandler) CreatePass(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid fields")
	}

	pass := models.Pass{
		AdminID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		IsActive:    true,
	}

	if err := h.db.Create(&pass).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": pass})
}

// ListPasses returns active passes. Admins see their own passes
// including inactive ones.
func (h *PassHandler) ListPasses(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Pass{})

	if c.Query("mine") == "true" {
		query = query.Where("admin_id = ?", claims.UserID)
	} else {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var passes []models.Pass
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&passes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    passes,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// DeactivatePass retires a pass owned by the calling admin.
func (h *PassHandler) DeactivatePass(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Pass{}).
		Where("id = ? AND admin_id = ?", id, claims.UserID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "pass not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "pass deactivated"})
}

// RequestMembership files a join request against a pass. A user may
// hold at most one membership per pass.
func (h *PassHandler) RequestMembership(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	passID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var pass models.Pass
	if err := h.db.First(&pass, "id = ? AND is_active = ?", passID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "pass not found")
		}
		return err
	}

	var existing models.PassMembership
	if err := h.db.Where("pass_id = ? AND user_id = ?", passID, claims.UserID).
		First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "membership already requested")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	membership := models.PassMembership{
		PassID: passID,
		UserID: claims.UserID,
		Status: models.MembershipPending,
	}

	if err := h.db.Create(&membership).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": membership})
}

// ListMyMemberships returns the caller's membership requests.
func (h *PassHandler) ListMyMemberships(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var memberships []models.PassMembership
	if err := h.db.Preload("Pass").
		Where("user_id = ?", claims.UserID).
		Order("created_at desc").
		Find(&memberships).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": memberships})
}

// ListPassMemberships returns membership requests for a pass the
// calling admin owns, optionally filtered by status.
func (h *PassHandler) ListPassMemberships(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	passID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var pass models.Pass
	if err := h.db.First(&pass, "id = ? AND admin_id = ?", passID, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "pass not found")
		}
		return err
	}

	query := h.db.Preload("User").Where("pass_id = ?", passID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var memberships []models.PassMembership
	if err := query.Order("created_at asc").Find(&memberships).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": memberships})
}

type decideMembershipRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// DecideMembership approves or rejects a pending membership, exactly
// once. Decided memberships cannot be re-decided.
func (h *PassHandler) DecideMembership(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	membershipID, err := uuid.Parse(c.Params("membershipId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req decideMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "status must be approved or rejected")
	}

	var membership models.PassMembership
	if err := h.db.Preload("Pass").First(&membership, "id = ?", membershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "membership not found")
		}
		return err
	}

	if membership.Pass == nil || membership.Pass.AdminID != claims.UserID {
		return fiber.NewError(fiber.StatusForbidden, "not the pass owner")
	}

	now := time.Now()
	// The pending guard in the WHERE clause makes the decision one-shot
	// even under concurrent approvals.
	result := h.db.Model(&models.PassMembership{}).
		Where("id = ? AND status = ?", membershipID, models.MembershipPending).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"decided_at": &now,
			"decided_by": claims.UserID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "membership already decided")
	}

	go h.notify.NotifyMembershipDecided(membershipID, req.Status)
	if err := h.notify.Notify(membership.UserID, &claims.UserID,
		"Pass membership "+req.Status,
		"Your request to join \""+membership.Pass.Title+"\" was "+req.Status+"."); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "membership " + req.Status})
}
