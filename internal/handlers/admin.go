package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/orders"
	"github.com/example/smartwave/internal/utils"
)

// AdminHandler manages the super-admin console endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin console.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalProfiles int64
	if err := h.db.Model(&models.Profile{}).Count(&totalProfiles).Error; err != nil {
		return err
	}

	var publishedCards int64
	if err := h.db.Model(&models.Profile{}).
		Where("short_url <> ''").
		Count(&publishedCards).Error; err != nil {
		return err
	}

	var totalPasses int64
	if err := h.db.Model(&models.Pass{}).Count(&totalPasses).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var membershipCounts []statusCount
	if err := h.db.Model(&models.PassMembership{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&membershipCounts).Error; err != nil {
		return err
	}

	membershipsByStatus := make(map[string]int64)
	for _, sc := range membershipCounts {
		membershipsByStatus[sc.Status] = sc.Count
	}

	// Orders live inside the per-user preferences documents, so the
	// totals are folded up in application code.
	var prefs []models.UserPreferences
	if err := h.db.Find(&prefs).Error; err != nil {
		return err
	}

	var totalOrders int64
	var totalRevenue float64
	ordersByStatus := make(map[string]int64)
	for _, p := range prefs {
		for _, o := range p.Orders {
			totalOrders++
			ordersByStatus[o.Status]++
			if o.Status != orders.StatusCancelled {
				totalRevenue += o.Total
			}
		}
	}

	var completedPayments int64
	if err := h.db.Model(&models.PaymentAttempt{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Count(&completedPayments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":           totalUsers,
			"total_profiles":        totalProfiles,
			"published_cards":       publishedCards,
			"total_passes":          totalPasses,
			"memberships_by_status": membershipsByStatus,
			"total_orders":          totalOrders,
			"orders_by_status":      ordersByStatus,
			"total_revenue":         totalRevenue,
			"completed_payments":    completedPayments,
		},
	})
}

// ListAllUsers returns registered users with pagination and search
// (super-admin user management).
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%",
		)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Select("id, email, first_name, last_name, role, is_verified, created_at, updated_at").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin superadmin"`
}

// UpdateUserRole changes a user's role (super-admin only). Admins
// cannot touch their own role.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if userID == claims.UserID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot change own role")
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	result := h.db.Model(&models.User{}).Where("id = ?", userID).Update("role", req.Role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "role updated"})
}

// DeleteUser removes a user account and everything keyed to it.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if userID == claims.UserID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete own account")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_email = ?", user.Email).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_email = ?", user.Email).Delete(&models.UserPreferences{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PassMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "user deleted"})
}
