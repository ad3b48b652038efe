package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AccessEntry is one capability toggle inside a grant's access list.
type AccessEntry struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	IsSelected bool   `json:"isSelected"`
}

// PackAccess grants a non-owner user a capability list on one pack.
// At most one row per (user, pack) pair; writes upsert by that pair.
type PackAccess struct {
	ID        uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex:idx_pack_access_user_pack" json:"userId"`
	PackID    uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex:idx_pack_access_user_pack" json:"packId"`
	HasAccess bool                             `gorm:"default:false" json:"hasAccess"`
	Access    datatypes.JSONSlice[AccessEntry] `json:"access"`
	Pack      *Pack                            `gorm:"foreignKey:PackID" json:"pack,omitempty"`
	CreatedAt time.Time                        `json:"created_at"`
	UpdatedAt time.Time                        `json:"updated_at"`
}
