package models

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey is a service-to-service credential. Only sha256 hashes are
// stored; the raw key and refresh key are returned once at issue time.
type ApiKey struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	KeyHash        string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	RefreshKeyHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}
