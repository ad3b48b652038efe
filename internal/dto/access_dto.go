package dto

import (
	"github.com/google/uuid"
	"github.com/hera-security/hera-backend/internal/models"
)

// GrantInput is one entry of a bulk access-grant upsert. Pointer fields
// distinguish "absent" from zero values during per-item validation.
type GrantInput struct {
	UserID    *uuid.UUID           `json:"userId"`
	PackID    *uuid.UUID           `json:"packId"`
	HasAccess *bool                `json:"hasAccess"`
	Access    []models.AccessEntry `json:"access"`
}

const (
	GrantCreated = "created"
	GrantUpdated = "updated"
	GrantError   = "error"
)

// GrantResult tags the outcome of one batch entry. The batch itself
// never fails wholesale; invalid entries surface here.
type GrantResult struct {
	Index   int                `json:"index"`
	Status  string             `json:"status"`
	Message string             `json:"message,omitempty"`
	Grant   *models.PackAccess `json:"grant,omitempty"`
}
