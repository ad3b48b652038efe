package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Add appends one timeline entry. A missing timestamp defaults to now.
func (s *ActivityService) Add(req *dto.AddActivityRequest) (*models.Activity, error) {
	ts := time.Now().UTC()
	if req.TimeStamp != nil {
		ts = req.TimeStamp.UTC()
	}

	activity := models.Activity{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		Content:   req.Content,
		Timestamp: ts,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return &activity, nil
}

// FindByOwner returns the owner's timeline newest-first. A non-empty
// date restricts results to the UTC day [date, date+24h).
func (s *ActivityService) FindByOwner(ownerID uuid.UUID, date string) ([]models.Activity, error) {
	query := s.db.Where("owner_id = ?", ownerID)

	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			return nil, ErrInvalidDate
		}
		query = query.Where("timestamp >= ? AND timestamp < ?", day, day.Add(24*time.Hour))
	}

	var activities []models.Activity
	if err := query.Order("timestamp DESC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
