package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultUrgencyNumber is the fallback emergency contact dialed by the
// mobile app when a pack has no custom number configured.
const DefaultUrgencyNumber = "112"

// Pack is one physical alarm controller, owned by exactly one
// owner-capable user. DeviceID is the stable hardware identifier.
type Pack struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	DeviceID       string    `gorm:"size:100;not null;uniqueIndex" json:"deviceId"`
	DevicePassword string    `gorm:"size:255;not null" json:"-"`
	DeviceName     string    `gorm:"size:255;not null" json:"deviceName"`
	UrgencyNumber  string    `gorm:"size:30;default:'112'" json:"urgencyNumber"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
