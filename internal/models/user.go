package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User types. Admins and members always hang off an owner via OwnerID.
const (
	UserTypeOwner  = 1
	UserTypeAdmin  = 2
	UserTypeMember = 3
)

type User struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"size:255;not null" json:"name"`
	Email         string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password      string                      `gorm:"not null" json:"-"`
	PhoneNumber   *string                     `gorm:"size:30" json:"phoneNumber"`
	UserType      int                         `gorm:"not null" json:"userType"`
	OwnerID       *uuid.UUID                  `gorm:"type:uuid;index" json:"ownerId"`
	DevicesToken  datatypes.JSONSlice[string] `json:"-"`
	FirstLogin    bool                        `gorm:"default:true" json:"firstLogin"`
	ImageURL      string                      `gorm:"type:text" json:"imageUrl"`
	ImagePublicID string                      `gorm:"size:255" json:"-"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// IsOwnerCapable reports whether the user may own packs or subordinate
// users. Plain members cannot.
func (u *User) IsOwnerCapable() bool {
	return u.UserType == UserTypeOwner || u.UserType == UserTypeAdmin
}

// HasDeviceToken reports whether token is already registered.
func (u *User) HasDeviceToken(token string) bool {
	for _, t := range u.DevicesToken {
		if t == token {
			return true
		}
	}
	return false
}
