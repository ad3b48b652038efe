package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
	"github.com/hera-security/hera-backend/internal/push"
)

func TestComposeMessage(t *testing.T) {
	armed := ComposeMessage("armed", "Maison", "Alice")
	assert.Equal(t, "Alarm activated", armed.Title)
	assert.Contains(t, armed.Body, "Maison")
	assert.Contains(t, armed.Body, "Alice")

	disarmed := ComposeMessage("disarmed", "Maison", "Alice")
	assert.Equal(t, "Alarm deactivated", disarmed.Title)
	assert.Contains(t, disarmed.Body, "Alice")

	online := ComposeMessage("online", "Maison", "Alice")
	assert.Equal(t, "Alarm powered on", online.Title)
	assert.Contains(t, online.Body, "Maison")
	assert.NotContains(t, online.Body, "Alice")

	offline := ComposeMessage("offline", "Maison", "")
	assert.Equal(t, "Alarm powered off", offline.Title)

	tamper := ComposeMessage("SensorAbnormal", "Maison", "")
	assert.Equal(t, "Tamper detected", tamper.Title)
	assert.Contains(t, tamper.Body, "Maison")

	intrusion := ComposeMessage("RCEmergencyCall", "Maison", "")
	assert.Equal(t, "Intrusion detected", intrusion.Title)
	assert.Contains(t, intrusion.Body, "Maison")

	generic := ComposeMessage("something-new", "Maison", "Alice")
	assert.Equal(t, "Security alert", generic.Title)
	assert.NotEmpty(t, generic.Body)
}

func TestDispatchUnknownDeviceDropsEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, &fakePushSender{})

	_, err := svc.Dispatch(context.Background(), &dto.PostNotificationRequest{
		MsgType:  "armed",
		DeviceID: "DEV-404",
	})
	assert.ErrorIs(t, err, ErrPackNotFound)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDispatchNoTokensStillPersistsEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, &fakePushSender{})

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	pack := createPack(t, db, owner.ID, "DEV-001", "Maison")

	_, err := svc.Dispatch(context.Background(), &dto.PostNotificationRequest{
		MsgType:  "armed",
		DeviceID: "DEV-001",
		UserName: "Alice",
	})
	assert.ErrorIs(t, err, ErrNoDeviceTokens)

	// Persistence and delivery are deliberately not atomic
	var stored models.Notification
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, pack.ID, stored.PackID)
	assert.Equal(t, "Maison", stored.PackName)
	assert.Equal(t, owner.ID, stored.PackOwnerID)
}

func TestDispatchMulticastsAndPrunesDeadTokens(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakePushSender{
		result: &push.MulticastResult{
			Success: 1,
			Failure: 1,
			Results: []push.TokenResult{
				{MessageID: "m1"},
				{Error: "NotRegistered"},
			},
		},
	}
	svc := NewNotificationService(db, sender)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	owner.DevicesToken = datatypes.NewJSONSlice([]string{"tok-live", "tok-dead"})
	require.NoError(t, db.Save(owner).Error)
	createPack(t, db, owner.ID, "DEV-001", "Maison")

	result, err := svc.Dispatch(context.Background(), &dto.PostNotificationRequest{
		MsgType:   "armed",
		DeviceID:  "DEV-001",
		AlarmType: "burglar",
		UserName:  "Alice",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-live", "tok-dead"}, sender.gotTokens)
	assert.Contains(t, sender.gotMsg.Body, "Maison")
	assert.Contains(t, sender.gotMsg.Body, "Alice")
	assert.Equal(t, "DEV-001", sender.gotMsg.Data["deviceId"])
	assert.Equal(t, "burglar", sender.gotMsg.Data["alarmType"])

	assert.Equal(t, 1, result.Delivery.Success)
	assert.Equal(t, 1, result.Delivery.Failure)
	require.NotNil(t, result.Notification)
	assert.Equal(t, "armed", result.Notification.MsgType)

	// The permanently dead token is removed from the registry
	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", owner.ID).Error)
	assert.Equal(t, []string{"tok-live"}, []string(updated.DevicesToken))
}

func TestDispatchTransportFailureDegrades(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakePushSender{err: errors.New("fcm unreachable")}
	svc := NewNotificationService(db, sender)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	owner.DevicesToken = datatypes.NewJSONSlice([]string{"tok-a", "tok-b"})
	require.NoError(t, db.Save(owner).Error)
	createPack(t, db, owner.ID, "DEV-001", "Maison")

	result, err := svc.Dispatch(context.Background(), &dto.PostNotificationRequest{
		MsgType:  "offline",
		DeviceID: "DEV-001",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Delivery.Success)
	assert.Equal(t, 2, result.Delivery.Failure)

	// Event is on record despite the outage
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFindNotificationsByOwnerNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db, &fakePushSender{})

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	pack := createPack(t, db, owner.ID, "DEV-001", "Maison")

	base := time.Now().Add(-time.Hour)
	for i, msgType := range []string{"online", "armed", "disarmed"} {
		require.NoError(t, db.Create(&models.Notification{
			ID:          uuid.New(),
			MsgType:     msgType,
			DeviceID:    pack.DeviceID,
			PackID:      pack.ID,
			PackName:    pack.DeviceName,
			PackOwnerID: owner.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	notifications, err := svc.FindAllByOwner(owner.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "disarmed", notifications[0].MsgType)
	assert.Equal(t, "online", notifications[2].MsgType)

	// Unknown owner gets an empty list
	other := createUser(t, db, "other@example.com", models.UserTypeOwner, nil)
	notifications, err = svc.FindAllByOwner(other.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
