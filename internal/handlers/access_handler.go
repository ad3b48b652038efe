package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/services"
)

type AccessHandler struct {
	accessService *services.AccessService
}

func NewAccessHandler(accessService *services.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// BulkUpsert takes a raw array of grants and reports one result per
// entry; the call succeeds even when individual entries fail.
func (h *AccessHandler) BulkUpsert(c *fiber.Ctx) error {
	var items []dto.GrantInput
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Request body must be an array of grants",
		})
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "At least one grant is required",
		})
	}

	results := h.accessService.UpsertGrants(items)
	return c.JSON(fiber.Map{"results": results})
}

func (h *AccessHandler) GetByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid userId",
		})
	}

	grants, err := h.accessService.FindAllByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list grants",
		})
	}
	return c.JSON(grants)
}
