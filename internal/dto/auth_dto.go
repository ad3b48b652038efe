package dto

import "github.com/google/uuid"

type SignupRequest struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password"`
	PhoneNumber *string    `json:"phoneNumber"`
	UserType    int        `json:"userType" validate:"required,oneof=1 2 3"`
	OwnerID     *uuid.UUID `json:"ownerId"`
}

type SignupResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// UserProfile is the credential-free view of a user returned by auth routes.
type UserProfile struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phoneNumber"`
	UserType    int        `json:"userType"`
	OwnerID     *uuid.UUID `json:"ownerId"`
	FirstLogin  bool       `json:"firstLogin"`
	ImageURL    string     `json:"imageUrl"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type ActionTokenResponse struct {
	Message     string `json:"message"`
	ActionToken string `json:"actionToken"`
}

type ApiKeyResponse struct {
	Status     string `json:"status"`
	ApiKey     string `json:"apiKey"`
	RefreshKey string `json:"refreshKey,omitempty"`
	ExpiresAt  string `json:"expiresAt"`
}

type RefreshApiKeyRequest struct {
	RefreshKey string `json:"refreshKey" validate:"required"`
}
