package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smartwave/internal/config"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/utils"
)

func authTestApp(cfg *config.Config, role string) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		claims, _ := GetCurrentClaims(c)
		return c.JSON(fiber.Map{"email": claims.Email})
	})
	app.Get("/admin", AuthMiddleware(cfg), RequireRole(role), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := authTestApp(cfg, models.RoleAdmin)

	token, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), "ada@example.com", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := authTestApp(cfg, models.RoleAdmin)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleUser, fiber.StatusForbidden},
		{models.RoleAdmin, fiber.StatusOK},
		{models.RoleSuperAdmin, fiber.StatusOK},
	}

	for _, tt := range tests {
		token, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), "x@example.com", tt.role, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.StatusCode, "role %s", tt.role)
	}
}

func TestWebhookAuthMiddleware(t *testing.T) {
	const secret = "hook-secret"
	app := fiber.New()
	app.Post("/hook", WebhookAuthMiddleware(secret), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	body := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest("POST", "/hook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signature)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/hook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "bogus")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/hook", bytes.NewReader(body))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
