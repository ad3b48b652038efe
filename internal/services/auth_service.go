package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/config"
	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/mailer"
	"github.com/hera-security/hera-backend/internal/models"
)

// Token purposes. Every signed token carries exactly one and endpoints
// only accept their own; a reset token can never act as an access token.
const (
	PurposeAccess = "access"
	PurposeReset  = "password-reset"
	PurposeAction = "action"
)

const tempPasswordLength = 12

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrUserNotFound         = errors.New("user not found")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
	ErrInvalidAPIKey        = errors.New("invalid refresh key")
)

// EmailDispatcher hands an email off for asynchronous delivery.
type EmailDispatcher interface {
	Dispatch(email mailer.Email)
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	emails EmailDispatcher
}

func NewAuthService(db *gorm.DB, cfg *config.Config, emails EmailDispatcher) *AuthService {
	return &AuthService{db: db, cfg: cfg, emails: emails}
}

// Signup creates a user after validating the owner hierarchy rules.
// When no password is supplied a temporary one is generated and sent in
// the welcome email; only its bcrypt hash is stored.
func (s *AuthService) Signup(req *dto.SignupRequest) (*models.User, error) {
	if err := s.validateHierarchy(req); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	tempPassword := req.Password
	generated := false
	if tempPassword == "" {
		var err error
		tempPassword, err = generateTempPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate temporary password: %w", err)
		}
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hash),
		PhoneNumber: req.PhoneNumber,
		UserType:    req.UserType,
		OwnerID:     req.OwnerID,
		FirstLogin:  true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendWelcomeEmail(&user, tempPassword, generated)

	return &user, nil
}

func (s *AuthService) validateHierarchy(req *dto.SignupRequest) error {
	switch req.UserType {
	case models.UserTypeOwner:
		if req.OwnerID != nil {
			return errors.New("ownerId must be null for an owner user")
		}
	case models.UserTypeAdmin, models.UserTypeMember:
		if req.OwnerID == nil {
			return errors.New("ownerId is required for admin and member users")
		}
		var owner models.User
		if err := s.db.First(&owner, "id = ?", *req.OwnerID).Error; err != nil {
			return errors.New("no owner user found with this ownerId")
		}
		if !owner.IsOwnerCapable() {
			return errors.New("referenced ownerId is not an owner-capable user")
		}
	default:
		return errors.New("userType must be 1 (owner), 2 (admin) or 3 (member)")
	}
	return nil
}

func (s *AuthService) sendWelcomeEmail(user *models.User, tempPassword string, generated bool) {
	// Self-chosen passwords are never echoed back by email.
	shown := tempPassword
	if !generated {
		shown = "(the password you chose)"
	}

	vars := map[string]string{
		"name":         user.Name,
		"email":        user.Email,
		"tempPassword": shown,
	}

	html, err := mailer.RenderTemplate("welcome_email", vars, "html")
	if err != nil {
		slog.Error("welcome email render failed", "error", err)
		return
	}
	text, err := mailer.RenderTemplate("welcome_email", vars, "txt")
	if err != nil {
		slog.Error("welcome email render failed", "error", err)
		return
	}

	s.emails.Dispatch(mailer.Email{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Welcome to Hera Security",
		HTML:    html,
		Text:    text,
	})
}

// Login verifies credentials and issues an access token plus a rotating
// refresh token. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.LoginResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// ForgotPassword issues a short-lived purpose-scoped reset token and
// emails a deep link carrying it. No stored state changes.
func (s *AuthService) ForgotPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	token, err := s.signToken(user.ID, PurposeReset, s.cfg.ResetSecret, s.cfg.ResetExpiry)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}

	resetLink := s.cfg.AppDomain + "/deeplink?to=update-password&token=" + token
	vars := map[string]string{
		"name":      user.Name,
		"email":     user.Email,
		"resetLink": resetLink,
	}

	html, err := mailer.RenderTemplate("reset_password_email", vars, "html")
	if err != nil {
		return fmt.Errorf("reset email render failed: %w", err)
	}
	text, err := mailer.RenderTemplate("reset_password_email", vars, "txt")
	if err != nil {
		return fmt.Errorf("reset email render failed: %w", err)
	}

	s.emails.Dispatch(mailer.Email{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Reset your Hera Security password",
		HTML:    html,
		Text:    text,
	})

	return nil
}

// ResetPassword replaces the password of the user identified by a valid
// reset token and clears the first-login flag.
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	userID, err := s.verifyToken(rawToken, PurposeReset, s.cfg.ResetSecret)
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":    string(hash),
			"first_login": false,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword is the authenticated change: the old password must
// verify before the new one is stored.
func (s *AuthService) UpdatePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrOldPasswordIncorrect
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password":    string(hash),
		"first_login": false,
	}).Error
}

// GenerateActionToken mints the token required to call signup.
func (s *AuthService) GenerateActionToken() (string, error) {
	claims := jwt.MapClaims{
		"purpose": PurposeAction,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.cfg.ActionExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyActionToken checks signature, expiry and purpose.
func (s *AuthService) VerifyActionToken(raw string) error {
	_, err := s.verifyToken(raw, PurposeAction, s.cfg.JWTSecret)
	return err
}

// GenerateAPIKey issues a service-to-service key pair. Raw values are
// returned once; only sha256 hashes are stored.
func (s *AuthService) GenerateAPIKey() (*dto.ApiKeyResponse, error) {
	key, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	refreshKey, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	record := models.ApiKey{
		ID:             uuid.New(),
		KeyHash:        hashToken(key),
		RefreshKeyHash: hashToken(refreshKey),
		ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	return &dto.ApiKeyResponse{
		Status:     "success",
		ApiKey:     key,
		RefreshKey: refreshKey,
		ExpiresAt:  record.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// RefreshAPIKey rotates the key identified by a refresh key and extends
// its expiry.
func (s *AuthService) RefreshAPIKey(refreshKey string) (*dto.ApiKeyResponse, error) {
	var record models.ApiKey
	if err := s.db.Where("refresh_key_hash = ?", hashToken(refreshKey)).First(&record).Error; err != nil {
		return nil, ErrInvalidAPIKey
	}

	newKey, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	record.KeyHash = hashToken(newKey)
	record.ExpiresAt = time.Now().Add(7 * 24 * time.Hour)
	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to rotate api key: %w", err)
	}

	return &dto.ApiKeyResponse{
		Status:    "success",
		ApiKey:    newKey,
		ExpiresAt: record.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := s.signToken(user.ID, PurposeAccess, s.cfg.JWTSecret, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User: dto.UserProfile{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			UserType:    user.UserType,
			OwnerID:     user.OwnerID,
			FirstLogin:  user.FirstLogin,
			ImageURL:    user.ImageURL,
		},
	}, nil
}

func (s *AuthService) signToken(userID uuid.UUID, purpose, secret string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID.String(),
		"purpose": purpose,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) verifyToken(raw, purpose, secret string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return uuid.Nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(sub)
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func generateTempPassword() (string, error) {
	raw := make([]byte, tempPasswordLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return encoded[:tempPasswordLength], nil
}

func randomHex(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
