package dto

import (
	"github.com/google/uuid"
	"github.com/hera-security/hera-backend/internal/models"
)

type DeviceTokenRequest struct {
	UserID      uuid.UUID `json:"userId" validate:"required"`
	DeviceToken string    `json:"deviceToken" validate:"required"`
}

type DeviceTokenResponse struct {
	Message      string   `json:"message"`
	DevicesToken []string `json:"devicesToken"`
}

type UpdateUserRequest struct {
	Name        string  `json:"name" validate:"required"`
	PhoneNumber *string `json:"phoneNumber"`
	UserType    int     `json:"userType" validate:"required,oneof=1 2 3"`
}

// UserWithGrants enriches a user with its pack-access list, each grant
// carrying the full pack document under "pack".
type UserWithGrants struct {
	models.User
	PackAccessList []models.PackAccess `json:"packAccessList"`
}
