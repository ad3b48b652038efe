package dto

import "github.com/google/uuid"

type AddPackRequest struct {
	OwnerID        uuid.UUID `json:"ownerId" validate:"required"`
	DeviceID       string    `json:"deviceId" validate:"required"`
	DeviceName     string    `json:"deviceName" validate:"required"`
	DevicePassword string    `json:"devicePassword" validate:"required"`
}

type UpdatePackRequest struct {
	DeviceName    *string `json:"deviceName"`
	UrgencyNumber *string `json:"urgencyNumber"`
}
