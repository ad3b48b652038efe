package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

var ErrDeviceTokenNotFound = errors.New("device token not registered for this user")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) FindAll() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// FindAllOwners returns users acting as owners: anyone referenced as
// some user's ownerId, plus root users with no owner of their own.
func (s *UserService) FindAllOwners() ([]models.User, error) {
	var ownerIDs []uuid.UUID
	if err := s.db.Model(&models.User{}).
		Where("owner_id IS NOT NULL").
		Distinct().
		Pluck("owner_id", &ownerIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to collect owner ids: %w", err)
	}

	query := s.db.Where("owner_id IS NULL")
	if len(ownerIDs) > 0 {
		query = s.db.Where(s.db.Where("owner_id IS NULL").Or("id IN ?", ownerIDs))
	}

	var owners []models.User
	if err := query.Order("created_at").Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

// FindAllByOwner returns the owner itself plus every user beneath it,
// each enriched with its pack-access grants and their full pack rows.
func (s *UserService) FindAllByOwner(ownerID uuid.UUID) ([]dto.UserWithGrants, error) {
	var users []models.User
	if err := s.db.
		Where(s.db.Where("id = ?", ownerID).Or("owner_id = ?", ownerID)).
		Order("created_at").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by owner: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	var grants []models.PackAccess
	if len(userIDs) > 0 {
		if err := s.db.Preload("Pack").
			Where("user_id IN ?", userIDs).
			Find(&grants).Error; err != nil {
			return nil, fmt.Errorf("failed to load pack access: %w", err)
		}
	}

	grantsByUser := make(map[uuid.UUID][]models.PackAccess, len(users))
	for _, g := range grants {
		grantsByUser[g.UserID] = append(grantsByUser[g.UserID], g)
	}

	enriched := make([]dto.UserWithGrants, 0, len(users))
	for _, u := range users {
		list := grantsByUser[u.ID]
		if list == nil {
			list = []models.PackAccess{}
		}
		enriched = append(enriched, dto.UserWithGrants{User: u, PackAccessList: list})
	}
	return enriched, nil
}

func (s *UserService) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *UserService) GetUserIDByEmail(email string) (uuid.UUID, error) {
	var user models.User
	if err := s.db.Select("id").Where("email = ?", email).First(&user).Error; err != nil {
		return uuid.Nil, ErrUserNotFound
	}
	return user.ID, nil
}

func (s *UserService) UpdateUser(id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	user.Name = req.Name
	user.PhoneNumber = req.PhoneNumber
	user.UserType = req.UserType

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the user and cascades deletion of every access
// grant referencing it. Packs are left in place.
func (s *UserService) DeleteUser(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.PackAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// AddDeviceToken registers a push token; adding an existing token is a
// no-op (set semantics).
func (s *UserService) AddDeviceToken(userID uuid.UUID, token string) ([]string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if !user.HasDeviceToken(token) {
		user.DevicesToken = append(user.DevicesToken, token)
		if err := s.db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to add device token: %w", err)
		}
	}
	return user.DevicesToken, nil
}

// RemoveDeviceToken unregisters a push token; removing an unknown token
// is an error so clients notice stale state.
func (s *UserService) RemoveDeviceToken(userID uuid.UUID, token string) ([]string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	kept := user.DevicesToken[:0]
	for _, t := range user.DevicesToken {
		if t != token {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(user.DevicesToken) {
		return nil, ErrDeviceTokenNotFound
	}

	user.DevicesToken = kept
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to remove device token: %w", err)
	}
	return user.DevicesToken, nil
}

// UpdateImage swaps the stored profile image reference and returns the
// previous public id so the caller can delete the old file.
func (s *UserService) UpdateImage(id uuid.UUID, imageURL, publicID string) (string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return "", ErrUserNotFound
	}

	previous := user.ImagePublicID
	user.ImageURL = imageURL
	user.ImagePublicID = publicID
	if err := s.db.Save(&user).Error; err != nil {
		return "", fmt.Errorf("failed to update image: %w", err)
	}
	return previous, nil
}
