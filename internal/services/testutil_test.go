package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hera-security/hera-backend/internal/config"
	"github.com/hera-security/hera-backend/internal/mailer"
	"github.com/hera-security/hera-backend/internal/models"
	"github.com/hera-security/hera-backend/internal/push"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Pack{},
		&models.PackAccess{},
		&models.Notification{},
		&models.Activity{},
		&models.ApiKey{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-jwt-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
		ResetSecret:      "test-reset-secret",
		ResetExpiry:      time.Hour,
		ActionExpiry:     time.Hour,
		AppDomain:        "https://app.test",
	}
}

// fakeEmailDispatcher records dispatched emails instead of sending.
type fakeEmailDispatcher struct {
	sent []mailer.Email
}

func (f *fakeEmailDispatcher) Dispatch(email mailer.Email) {
	f.sent = append(f.sent, email)
}

// fakePushSender returns a scripted result or error.
type fakePushSender struct {
	result *push.MulticastResult
	err    error

	gotTokens []string
	gotMsg    push.Message
}

func (f *fakePushSender) SendMulticast(_ context.Context, tokens []string, msg push.Message) (*push.MulticastResult, error) {
	f.gotTokens = tokens
	f.gotMsg = msg
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func createUser(t *testing.T, db *gorm.DB, email string, userType int, ownerID *uuid.UUID) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:         uuid.New(),
		Name:       "Test User",
		Email:      email,
		Password:   string(hash),
		UserType:   userType,
		OwnerID:    ownerID,
		FirstLogin: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPack(t *testing.T, db *gorm.DB, ownerID uuid.UUID, deviceID, name string) *models.Pack {
	t.Helper()

	pack := &models.Pack{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		DeviceID:       deviceID,
		DevicePassword: "secret",
		DeviceName:     name,
		UrgencyNumber:  models.DefaultUrgencyNumber,
	}
	require.NoError(t, db.Create(pack).Error)
	return pack
}
