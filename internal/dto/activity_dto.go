package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddActivityRequest struct {
	OwnerID   uuid.UUID  `json:"ownerId" validate:"required"`
	Content   string     `json:"content" validate:"required"`
	TimeStamp *time.Time `json:"timeStamp"`
}
