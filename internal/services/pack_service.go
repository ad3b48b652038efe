package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
	"github.com/hera-security/hera-backend/internal/scope"
)

var (
	ErrPackNotFound    = errors.New("pack containing this deviceId not found")
	ErrDeviceIDTaken   = errors.New("a pack with this deviceId is already registered")
	ErrOwnerNotCapable = errors.New("pack owner must be an owner or admin user")
)

type PackService struct {
	db *gorm.DB
}

func NewPackService(db *gorm.DB) *PackService {
	return &PackService{db: db}
}

// AddPack provisions one controller to an owner-capable user.
func (s *PackService) AddPack(req *dto.AddPackRequest) (*models.Pack, error) {
	var owner models.User
	if err := s.db.First(&owner, "id = ?", req.OwnerID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if !owner.IsOwnerCapable() {
		return nil, ErrOwnerNotCapable
	}

	var existing models.Pack
	if err := s.db.Where("device_id = ?", req.DeviceID).First(&existing).Error; err == nil {
		return nil, ErrDeviceIDTaken
	}

	pack := models.Pack{
		ID:             uuid.New(),
		OwnerID:        req.OwnerID,
		DeviceID:       req.DeviceID,
		DevicePassword: req.DevicePassword,
		DeviceName:     req.DeviceName,
		UrgencyNumber:  models.DefaultUrgencyNumber,
	}

	if err := s.db.Create(&pack).Error; err != nil {
		return nil, fmt.Errorf("failed to create pack: %w", err)
	}
	return &pack, nil
}

// UpdateByDeviceID applies a partial update. An explicitly empty
// urgency number normalizes back to the default emergency code.
func (s *PackService) UpdateByDeviceID(deviceID string, req *dto.UpdatePackRequest) (*models.Pack, error) {
	var pack models.Pack
	if err := s.db.Where("device_id = ?", deviceID).First(&pack).Error; err != nil {
		return nil, ErrPackNotFound
	}

	if req.DeviceName != nil && *req.DeviceName != "" {
		pack.DeviceName = *req.DeviceName
	}
	if req.UrgencyNumber != nil {
		if *req.UrgencyNumber == "" {
			pack.UrgencyNumber = models.DefaultUrgencyNumber
		} else {
			pack.UrgencyNumber = *req.UrgencyNumber
		}
	}

	if err := s.db.Save(&pack).Error; err != nil {
		return nil, fmt.Errorf("failed to update pack: %w", err)
	}
	return &pack, nil
}

func (s *PackService) FindByDeviceID(deviceID string) (*models.Pack, error) {
	var pack models.Pack
	if err := s.db.Where("device_id = ?", deviceID).First(&pack).Error; err != nil {
		return nil, ErrPackNotFound
	}
	return &pack, nil
}

// FindAllByOwner returns the owner's packs; no match is an empty list,
// never an error.
func (s *PackService) FindAllByOwner(ownerID uuid.UUID) ([]models.Pack, error) {
	var packs []models.Pack
	if err := s.db.Scopes(scope.ForOwner(ownerID)).Order("created_at").Find(&packs).Error; err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}

func (s *PackService) FindAll() ([]models.Pack, error) {
	var packs []models.Pack
	if err := s.db.Order("created_at").Find(&packs).Error; err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}
