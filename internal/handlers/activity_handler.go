package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/services"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) Add(c *fiber.Ctx) error {
	var req dto.AddActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	activity, err := h.activityService.Add(&req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create activity",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

// GetAll lists an owner's timeline, optionally restricted to one UTC
// day via ?date=YYYY-MM-DD.
func (h *ActivityHandler) GetAll(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Query("ownerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "ownerId query parameter is required",
		})
	}

	activities, err := h.activityService.FindByOwner(ownerID, c.Query("date"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list activities",
		})
	}
	return c.JSON(activities)
}
