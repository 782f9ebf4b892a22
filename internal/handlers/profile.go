package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/progress"
	"github.com/example/smartwave/internal/utils"
)

// ProfileHandler manages card profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

func (h *ProfileHandler) findProfile(email string) (*models.Profile, error) {
	var profile models.Profile
	err := h.db.Where("user_email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile returns the authenticated user's card profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.findProfile(claims.Email)
	if err != nil {
		return err
	}
	if profile == nil {
		return fiber.NewError(fiber.StatusNotFound, "profile not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": profile})
}

type saveProfileRequest struct {
	FirstName     *string `json:"first_name"`
	MiddleName    *string `json:"middle_name"`
	LastName      *string `json:"last_name"`
	Title         *string `json:"title"`
	Company       *string `json:"company"`
	WorkEmail     *string `json:"work_email"`
	PersonalEmail *string `json:"personal_email"`
	Mobile        *string `json:"mobile"`
	WorkPhone     *string `json:"work_phone"`
	WorkAddress   *string `json:"work_address"`
	HomeAddress   *string `json:"home_address"`
	LinkedIn      *string `json:"linkedin"`
	Twitter       *string `json:"twitter"`
	Facebook      *string `json:"facebook"`
	Instagram     *string `json:"instagram"`
	YouTube       *string `json:"youtube"`
	Website       *string `json:"website"`
	Photo         *string `json:"photo"`
	CompanyLogo   *string `json:"company_logo"`
}

func (r *saveProfileRequest) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("first_name", r.FirstName)
	set("middle_name", r.MiddleName)
	set("last_name", r.LastName)
	set("title", r.Title)
	set("company", r.Company)
	set("work_email", r.WorkEmail)
	set("personal_email", r.PersonalEmail)
	set("mobile", r.Mobile)
	set("work_phone", r.WorkPhone)
	set("work_address", r.WorkAddress)
	set("home_address", r.HomeAddress)
	set("linked_in", r.LinkedIn)
	set("twitter", r.Twitter)
	set("facebook", r.Facebook)
	set("instagram", r.Instagram)
	set("you_tube", r.YouTube)
	set("website", r.Website)
	set("photo", r.Photo)
	set("company_logo", r.CompanyLogo)
	return updates
}

// SaveProfile creates or partially updates the card profile. The short
// url is not writable here.
func (h *ProfileHandler) SaveProfile(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req saveProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := req.updates()
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	profile, err := h.findProfile(claims.Email)
	if err != nil {
		return err
	}

	if profile == nil {
		profile = &models.Profile{UserEmail: claims.Email}
		if err := h.db.Create(profile).Error; err != nil {
			return err
		}
	}

	updates["updated_at"] = time.Now()
	if err := h.db.Model(&models.Profile{}).
		Where("user_email = ?", claims.Email).
		Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile saved"})
}

// GenerateShortURL assigns a public slug to the profile, creating the
// profile if the user has none yet. An already-assigned slug is
// returned unchanged unless regenerate=true is passed.
func (h *ProfileHandler) GenerateShortURL(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.findProfile(claims.Email)
	if err != nil {
		return err
	}

	if profile == nil {
		profile = &models.Profile{UserEmail: claims.Email}
		if err := h.db.Create(profile).Error; err != nil {
			return err
		}
	}

	regenerate := c.Query("regenerate") == "true"
	if profile.ShortURL != "" && !regenerate {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"shorturl": profile.ShortURL}})
	}

	// Slug collisions are resolved by retrying against the unique index.
	var slug string
	for attempt := 0; attempt < 5; attempt++ {
		slug, err = utils.GenerateShortURL()
		if err != nil {
			return err
		}

		err = h.db.Model(&models.Profile{}).
			Where("user_email = ?", claims.Email).
			Update("short_url", slug).Error
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"shorturl": slug}})
}

// GetProgress returns the derived onboarding step statuses for the
// user's profile.
func (h *ProfileHandler) GetProgress(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.findProfile(claims.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": progress.Evaluate(profile)})
}

// DeleteProfile removes the user's card profile. Profiles are only ever
// deleted through this explicit action.
func (h *ProfileHandler) DeleteProfile(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.db.Where("user_email = ?", claims.Email).
		Delete(&models.Profile{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile deleted"})
}
