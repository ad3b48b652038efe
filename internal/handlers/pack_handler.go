package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/services"
)

type PackHandler struct {
	packService *services.PackService
}

func NewPackHandler(packService *services.PackService) *PackHandler {
	return &PackHandler{packService: packService}
}

func (h *PackHandler) Add(c *fiber.Ctx) error {
	var req dto.AddPackRequest
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

	pack, err := h.packService.AddPack(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Owner not found",
			})
		case errors.Is(err, services.ErrOwnerNotCapable):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDeviceIDTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create pack",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(pack)
}

func (h *PackHandler) GetAll(c *fiber.Ctx) error {
	packs, err := h.packService.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list packs",
		})
	}
	return c.JSON(packs)
}

func (h *PackHandler) GetByDevice(c *fiber.Ctx) error {
	pack, err := h.packService.FindByDeviceID(c.Params("deviceId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(pack)
}

func (h *PackHandler) GetByOwner(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("ownerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid ownerId",
		})
	}

	packs, err := h.packService.FindAllByOwner(ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list packs",
		})
	}
	return c.JSON(packs)
}

func (h *PackHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	pack, err := h.packService.UpdateByDeviceID(c.Params("deviceId"), &req)
	if err != nil {
		if errors.Is(err, services.ErrPackNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update pack",
		})
	}
	return c.JSON(pack)
}
