package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// UpsertGrants processes a batch of grant writes. Invalid entries are
// reported per item and never abort the batch; valid entries upsert by
// the (userId, packId) pair so duplicates collapse into one row.
func (s *AccessService) UpsertGrants(items []dto.GrantInput) []dto.GrantResult {
	results := make([]dto.GrantResult, 0, len(items))

	for i, item := range items {
		if err := validateGrant(&item); err != nil {
			results = append(results, dto.GrantResult{
				Index:   i,
				Status:  dto.GrantError,
				Message: err.Error(),
			})
			continue
		}

		grant, status, err := s.upsertGrant(&item)
		if err != nil {
			results = append(results, dto.GrantResult{
				Index:   i,
				Status:  dto.GrantError,
				Message: err.Error(),
			})
			continue
		}

		results = append(results, dto.GrantResult{
			Index:  i,
			Status: status,
			Grant:  grant,
		})
	}

	return results
}

func validateGrant(item *dto.GrantInput) error {
	if item.UserID == nil || *item.UserID == uuid.Nil {
		return errors.New("userId is required")
	}
	if item.PackID == nil || *item.PackID == uuid.Nil {
		return errors.New("packId is required")
	}
	if item.HasAccess == nil {
		return errors.New("hasAccess must be a boolean")
	}
	if item.Access == nil {
		return errors.New("access must be a list")
	}
	return nil
}

func (s *AccessService) upsertGrant(item *dto.GrantInput) (*models.PackAccess, string, error) {
	var existing models.PackAccess
	err := s.db.Where("user_id = ? AND pack_id = ?", *item.UserID, *item.PackID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		grant := models.PackAccess{
			ID:        uuid.New(),
			UserID:    *item.UserID,
			PackID:    *item.PackID,
			HasAccess: *item.HasAccess,
			Access:    datatypes.NewJSONSlice(item.Access),
		}
		if err := s.db.Create(&grant).Error; err != nil {
			return nil, "", fmt.Errorf("failed to create grant: %w", err)
		}
		return &grant, dto.GrantCreated, nil
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to look up grant: %w", err)
	}

	existing.HasAccess = *item.HasAccess
	existing.Access = datatypes.NewJSONSlice(item.Access)
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, "", fmt.Errorf("failed to update grant: %w", err)
	}
	return &existing, dto.GrantUpdated, nil
}

// FindAllByUser returns the user's grants with full pack rows attached;
// no grants is an empty list, never an error.
func (s *AccessService) FindAllByUser(userID uuid.UUID) ([]models.PackAccess, error) {
	var grants []models.PackAccess
	if err := s.db.Preload("Pack").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	return grants, nil
}
