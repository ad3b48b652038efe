package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/config"
	"github.com/hera-security/hera-backend/internal/handlers"
	"github.com/hera-security/hera-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	packHandler *handlers.PackHandler,
	accessHandler *handlers.AccessHandler,
	notificationHandler *handlers.NotificationHandler,
	activityHandler *handlers.ActivityHandler,
	healthHandler *handlers.HealthHandler,
	deeplinkHandler *handlers.DeeplinkHandler,
) {
	app.Get("/healthz", healthHandler.Check)
	app.Get("/deeplink", deeplinkHandler.Redirect)

	app.Static("/public", "./public")
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Auth — credential endpoints get the stricter Redis token bucket on
	// top of the general limiter.
	auth := api.Group("/auth")
	auth.Use(middleware.RedisTokenBucket(middleware.DefaultAuthRateLimit(), rdb))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	auth.Put("/password", middleware.JWTProtected(cfg), authHandler.UpdatePassword)

	// Key minting is operator-only
	auth.Post("/action-token", middleware.AdminKeyRequired(cfg), authHandler.GenerateActionToken)
	auth.Post("/api-keys", middleware.AdminKeyRequired(cfg), authHandler.GenerateAPIKey)
	auth.Post("/api-keys/refresh", authHandler.RefreshAPIKey)

	// Users
	users := api.Group("/users")
	users.Get("/id-by-email", middleware.APIKeyRequired(db), userHandler.GetIDByEmail)
	users.Get("/", middleware.JWTProtected(cfg), userHandler.GetAll)
	users.Get("/owners", middleware.JWTProtected(cfg), userHandler.GetOwners)
	users.Get("/by-owner/:ownerId", middleware.JWTProtected(cfg), userHandler.GetByOwner)
	users.Post("/device-tokens", middleware.JWTProtected(cfg), userHandler.AddDeviceToken)
	users.Delete("/device-tokens", middleware.JWTProtected(cfg), userHandler.RemoveDeviceToken)
	users.Post("/:id/image", middleware.JWTProtected(cfg), userHandler.UploadImage)
	users.Put("/:id", middleware.JWTProtected(cfg), userHandler.Update)
	users.Delete("/:id", middleware.JWTProtected(cfg), userHandler.Delete)

	// Packs
	packs := api.Group("/packs")
	packs.Get("/device/:deviceId", middleware.APIKeyOrJWT(db, cfg), packHandler.GetByDevice)
	packs.Get("/owner/:ownerId", middleware.JWTProtected(cfg), packHandler.GetByOwner)
	packs.Get("/", middleware.JWTProtected(cfg), packHandler.GetAll)
	packs.Post("/", middleware.JWTProtected(cfg), packHandler.Add)
	packs.Patch("/:deviceId", middleware.JWTProtected(cfg), packHandler.Update)

	// Access grants
	access := api.Group("/access", middleware.JWTProtected(cfg))
	access.Post("/bulk", accessHandler.BulkUpsert)
	access.Get("/user/:userId", accessHandler.GetByUser)

	// Event ingestion comes from alarm hardware, not users
	api.Post("/notifications", middleware.MobileKeyRequired(cfg), notificationHandler.Post)
	api.Get("/notifications/owner/:ownerId", middleware.JWTProtected(cfg), notificationHandler.GetByOwner)

	// Activity timeline
	activities := api.Group("/activities", middleware.JWTProtected(cfg))
	activities.Post("/", activityHandler.Add)
	activities.Get("/", activityHandler.GetAll)
}
