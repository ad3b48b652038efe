package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
	"github.com/hera-security/hera-backend/internal/push"
)

var ErrNoDeviceTokens = errors.New("owner has no registered device tokens")

// DispatchResult pairs the stored event with the raw delivery outcome.
type DispatchResult struct {
	Notification *models.Notification  `json:"notification"`
	Delivery     *push.MulticastResult `json:"delivery"`
}

type NotificationService struct {
	db     *gorm.DB
	sender push.Sender
}

func NewNotificationService(db *gorm.DB, sender push.Sender) *NotificationService {
	return &NotificationService{db: db, sender: sender}
}

// ComposeMessage maps an event type to the title/body shown on the
// recipient's lock screen. Arming events name the acting user; status
// events name only the pack.
func ComposeMessage(msgType, packName, userName string) push.Message {
	switch msgType {
	case "RCEmergencyCall":
		return push.Message{
			Title: "Intrusion detected",
			Body:  fmt.Sprintf("An intrusion was detected at %s. A photo has been captured.", packName),
		}
	case "armed":
		return push.Message{
			Title: "Alarm activated",
			Body:  fmt.Sprintf("The alarm on %s was activated by %s.", packName, userName),
		}
	case "disarmed":
		return push.Message{
			Title: "Alarm deactivated",
			Body:  fmt.Sprintf("The alarm on %s was deactivated by %s.", packName, userName),
		}
	case "online":
		return push.Message{
			Title: "Alarm powered on",
			Body:  fmt.Sprintf("The alarm on %s is now powered on.", packName),
		}
	case "offline":
		return push.Message{
			Title: "Alarm powered off",
			Body:  fmt.Sprintf("The alarm on %s is now powered off.", packName),
		}
	case "SensorAbnormal":
		return push.Message{
			Title: "Tamper detected",
			Body:  fmt.Sprintf("A sensor on %s reported tampering.", packName),
		}
	default:
		return push.Message{
			Title: "Security alert",
			Body:  "A new security event was received.",
		}
	}
}

// Dispatch runs the ingestion pipeline: resolve the pack, persist the
// event with a frozen pack snapshot, resolve the owner's tokens, send
// one multicast push, and report per-token outcomes. The event is
// stored before recipients are resolved, so a recipient failure still
// leaves the event on record.
func (s *NotificationService) Dispatch(ctx context.Context, req *dto.PostNotificationRequest) (*DispatchResult, error) {
	var pack models.Pack
	if err := s.db.Where("device_id = ?", req.DeviceID).First(&pack).Error; err != nil {
		return nil, ErrPackNotFound
	}

	notification := models.Notification{
		ID:          uuid.New(),
		AccessKey:   req.AccessKey,
		ProductID:   req.ProductID,
		Category:    req.Category,
		MsgType:     req.MsgType,
		DeviceID:    req.DeviceID,
		ChannelID:   req.ChannelID,
		UTCTime:     req.UTCTime,
		LocalTime:   req.LocalTime,
		EventID:     req.EventID,
		AlarmType:   req.AlarmType,
		PackID:      pack.ID,
		PackName:    pack.DeviceName,
		PackOwnerID: pack.OwnerID,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", pack.OwnerID).Error; err != nil {
		return nil, ErrNoDeviceTokens
	}
	tokens := []string(owner.DevicesToken)
	if len(tokens) == 0 {
		return nil, ErrNoDeviceTokens
	}

	msg := ComposeMessage(req.MsgType, pack.DeviceName, req.UserName)
	msg.Data = map[string]string{
		"deviceId":  req.DeviceID,
		"alarmType": req.AlarmType,
	}

	result, err := s.sender.SendMulticast(ctx, tokens, msg)
	if err != nil {
		// The event is already on record; a transport outage degrades to
		// an all-failed delivery report instead of a server error.
		slog.Error("push multicast failed", "device_id", req.DeviceID, "error", err)
		result = &push.MulticastResult{Failure: len(tokens)}
	} else if invalid := result.InvalidTokens(tokens); len(invalid) > 0 {
		s.pruneTokens(&owner, invalid)
	}

	return &DispatchResult{Notification: &notification, Delivery: result}, nil
}

// pruneTokens drops registrations the transport reported as dead.
// Best effort: a failed prune only logs.
func (s *NotificationService) pruneTokens(owner *models.User, invalid []string) {
	dead := make(map[string]bool, len(invalid))
	for _, t := range invalid {
		dead[t] = true
	}

	kept := owner.DevicesToken[:0]
	for _, t := range owner.DevicesToken {
		if !dead[t] {
			kept = append(kept, t)
		}
	}
	owner.DevicesToken = kept

	if err := s.db.Model(owner).Update("devices_token", owner.DevicesToken).Error; err != nil {
		slog.Error("failed to prune device tokens", "user_id", owner.ID, "error", err)
		return
	}
	slog.Info("pruned invalid device tokens", "user_id", owner.ID, "count", len(invalid))
}

// FindAllByOwner lists events whose pack snapshot names this owner,
// newest first; no events is an empty list, never an error.
func (s *NotificationService) FindAllByOwner(ownerID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Where("pack_owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
