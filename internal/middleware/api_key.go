package middleware

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

// APIKeyRequired authenticates service-to-service callers against the
// hashed api_keys table. Keys are compared by sha256 so raw values
// never touch storage.
func APIKeyRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "API key missing",
			})
		}

		key := strings.TrimPrefix(authHeader, "Bearer ")
		keyHash := fmt.Sprintf("%x", sha256.Sum256([]byte(key)))

		var record models.ApiKey
		if err := db.Where("key_hash = ?", keyHash).First(&record).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid API key",
			})
		}

		if !record.ExpiresAt.IsZero() && record.ExpiresAt.Before(time.Now()) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "API key expired",
			})
		}

		return c.Next()
	}
}
