package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
)

// WebhookAuthMiddleware validates the gateway webhook signature header:
// HMAC-SHA256 over the raw request body with the shared webhook secret.
func WebhookAuthMiddleware(webhookSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webhookSecret == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "webhook secret not configured")
		}

		signature := c.Get("X-Razorpay-Signature")
		if signature == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing webhook signature")
		}

		mac := hmac.New(sha256.New, []byte(webhookSecret))
		mac.Write(c.Body())
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(signature)) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid webhook signature")
		}

		return c.Next()
	}
}
