package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

func TestSignupOwner(t *testing.T) {
	db := setupTestDB(t)
	emails := &fakeEmailDispatcher{}
	svc := NewAuthService(db, testConfig(), emails)

	user, err := svc.Signup(&dto.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "chosen-password",
		UserType: models.UserTypeOwner,
	})
	require.NoError(t, err)
	assert.Nil(t, user.OwnerID)
	assert.True(t, user.FirstLogin)

	// Only a hash is stored and it verifies against the plaintext
	assert.NotEqual(t, "chosen-password", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("chosen-password")))

	require.Len(t, emails.sent, 1)
	assert.Equal(t, "alice@example.com", emails.sent[0].To)
	// Self-chosen passwords never appear in the welcome email
	assert.NotContains(t, emails.sent[0].HTML, "chosen-password")
}

func TestSignupHierarchyRules(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	member := createUser(t, db, "member@example.com", models.UserTypeMember, &owner.ID)

	// Owner must not reference another owner
	_, err := svc.Signup(&dto.SignupRequest{
		Name: "O", Email: "o2@example.com", Password: "x",
		UserType: models.UserTypeOwner, OwnerID: &owner.ID,
	})
	assert.Error(t, err)

	// Admin without ownerId is rejected
	_, err = svc.Signup(&dto.SignupRequest{
		Name: "A", Email: "a@example.com", Password: "x",
		UserType: models.UserTypeAdmin,
	})
	assert.Error(t, err)

	// A plain member cannot anchor subordinates
	_, err = svc.Signup(&dto.SignupRequest{
		Name: "M2", Email: "m2@example.com", Password: "x",
		UserType: models.UserTypeMember, OwnerID: &member.ID,
	})
	assert.Error(t, err)

	// Admin under a real owner works
	admin, err := svc.Signup(&dto.SignupRequest{
		Name: "A", Email: "a@example.com", Password: "x",
		UserType: models.UserTypeAdmin, OwnerID: &owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, *admin.OwnerID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	createUser(t, db, "taken@example.com", models.UserTypeOwner, nil)

	_, err := svc.Signup(&dto.SignupRequest{
		Name: "Dup", Email: "taken@example.com", Password: "x",
		UserType: models.UserTypeOwner,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "taken@example.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGeneratedTempPasswordVerifies(t *testing.T) {
	tempPassword, err := generateTempPassword()
	require.NoError(t, err)
	assert.Len(t, tempPassword, tempPasswordLength)

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte(tempPassword)))
	assert.Error(t, bcrypt.CompareHashAndPassword(hash, []byte("other-password")))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	createUser(t, db, "login@example.com", models.UserTypeOwner, nil)

	// Unknown email and wrong password are indistinguishable
	_, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "login@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(&dto.LoginRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "login@example.com", resp.User.Email)
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	createUser(t, db, "rotate@example.com", models.UserTypeOwner, nil)
	login, err := svc.Login(&dto.LoginRequest{Email: "rotate@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The consumed token is revoked and cannot be replayed
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordRejectsWrongPurpose(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg, &fakeEmailDispatcher{})

	user := createUser(t, db, "reset@example.com", models.UserTypeOwner, nil)

	// A token signed with the reset secret but the wrong purpose is refused
	wrongPurpose, err := svc.signToken(user.ID, PurposeAccess, cfg.ResetSecret, cfg.ResetExpiry)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ResetPassword(wrongPurpose, "new-password-1"), ErrInvalidToken)

	resetToken, err := svc.signToken(user.ID, PurposeReset, cfg.ResetSecret, cfg.ResetExpiry)
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(resetToken, "new-password-1"))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.False(t, updated.FirstLogin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password-1")))
}

func TestForgotPasswordEmailsDeeplink(t *testing.T) {
	db := setupTestDB(t)
	emails := &fakeEmailDispatcher{}
	svc := NewAuthService(db, testConfig(), emails)

	createUser(t, db, "forgot@example.com", models.UserTypeOwner, nil)

	assert.ErrorIs(t, svc.ForgotPassword("missing@example.com"), ErrUserNotFound)

	require.NoError(t, svc.ForgotPassword("forgot@example.com"))
	require.Len(t, emails.sent, 1)
	assert.Contains(t, emails.sent[0].Text, "https://app.test/deeplink?to=update-password&token=")
}

func TestUpdatePasswordChecksOld(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	user := createUser(t, db, "update@example.com", models.UserTypeOwner, nil)

	err := svc.UpdatePassword(user.ID, "wrong-old", "new-password-1")
	assert.ErrorIs(t, err, ErrOldPasswordIncorrect)

	require.NoError(t, svc.UpdatePassword(user.ID, "password123", "new-password-1"))

	_, err = svc.Login(&dto.LoginRequest{Email: "update@example.com", Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestActionTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	token, err := svc.GenerateActionToken()
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyActionToken(token))
	assert.Error(t, svc.VerifyActionToken("garbage"))
	assert.Error(t, svc.VerifyActionToken(""))
}

func TestAPIKeyLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), &fakeEmailDispatcher{})

	issued, err := svc.GenerateAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, issued.ApiKey)
	require.NotEmpty(t, issued.RefreshKey)

	// Raw values never hit storage
	var record models.ApiKey
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, hashToken(issued.ApiKey), record.KeyHash)
	assert.NotEqual(t, issued.ApiKey, record.KeyHash)

	_, err = svc.RefreshAPIKey("not-a-real-key")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	rotated, err := svc.RefreshAPIKey(issued.RefreshKey)
	require.NoError(t, err)
	assert.NotEqual(t, issued.ApiKey, rotated.ApiKey)
	assert.False(t, strings.EqualFold(rotated.ApiKey, issued.ApiKey))

	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, hashToken(rotated.ApiKey), record.KeyHash)
}
