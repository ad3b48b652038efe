package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one alarm/status event received from a device.
// PackID, PackName and PackOwnerID are a snapshot of the resolved pack
// frozen at write time: renaming a pack later never rewrites history.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccessKey   string    `gorm:"size:100" json:"accessKey"`
	ProductID   string    `gorm:"size:100" json:"productId"`
	Category    string    `gorm:"size:100" json:"category"`
	MsgType     string    `gorm:"size:50;not null;index" json:"msgType"`
	DeviceID    string    `gorm:"size:100;not null;index" json:"deviceId"`
	ChannelID   int       `json:"channelId"`
	UTCTime     int64     `json:"utcTime"`
	LocalTime   int64     `json:"localTime"`
	EventID     string    `gorm:"size:64" json:"eventId"`
	AlarmType   string    `gorm:"size:50" json:"alarmType"`
	PackID      uuid.UUID `gorm:"type:uuid;index" json:"packId"`
	PackName    string    `gorm:"size:255" json:"packName"`
	PackOwnerID uuid.UUID `gorm:"type:uuid;index" json:"packOwnerId"`
	CreatedAt   time.Time `json:"created_at"`
}
