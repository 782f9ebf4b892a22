package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
)

// CardHandler serves public card lookups and QR codes.
type CardHandler struct {
	db          *gorm.DB
	cardBaseURL string
}

// NewCardHandler constructs CardHandler.
func NewCardHandler(db *gorm.DB, cardBaseURL string) *CardHandler {
	return &CardHandler{db: db, cardBaseURL: strings.TrimRight(cardBaseURL, "/")}
}

// GetPublicCard returns the published card for a short url. No auth:
// this is the page a scanned card opens.
func (h *CardHandler) GetPublicCard(c *fiber.Ctx) error {
	slug := c.Params("shorturl")

	var profile models.Profile
	if err := h.db.Where("short_url = ?", slug).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "card not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profile})
}

// GetQRCode renders a PNG QR code pointing at the authenticated user's
// public card URL. The card must have a short url first.
func (h *CardHandler) GetQRCode(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var profile models.Profile
	if err := h.db.Where("user_email = ?", claims.Email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return err
	}

	if profile.ShortURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "card has no short url yet")
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/%s", h.cardBaseURL, profile.ShortURL), qrcode.Medium, 256)
	if err != nil {
		return err
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
