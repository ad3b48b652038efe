package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/hera-security/hera-backend/internal/config"
	"github.com/hera-security/hera-backend/internal/dto"
)

// AdminKeyRequired guards administrative routes (API key minting,
// action-token issuance) with the static master key.
func AdminKeyRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-Admin-Key")
		if cfg.AdminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.AdminKey)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid admin key",
			})
		}
		return c.Next()
	}
}

// MobileKeyRequired guards the device event ingestion route with the
// static key shipped in trusted backend callers.
func MobileKeyRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-Mobile-Key")
		if cfg.MobileKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.MobileKey)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "You are not authorized to perform this action",
			})
		}
		return c.Next()
	}
}
