package middleware

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/config"
	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

// APIKeyOrJWT accepts either a user access token or a service API key
// in the same Authorization header. Device-facing read routes are
// called by both kinds of client.
func APIKeyOrJWT(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Authorization required",
			})
		}
		raw := strings.TrimPrefix(authHeader, "Bearer ")

		if token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		}); err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if purpose, _ := claims["purpose"].(string); purpose == "access" {
					c.Locals("user", token)
					return c.Next()
				}
			}
		}

		keyHash := fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
		var record models.ApiKey
		if err := db.Where("key_hash = ?", keyHash).First(&record).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid credentials",
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
