package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

func TestAddPack(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPackService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)

	pack, err := svc.AddPack(&dto.AddPackRequest{
		OwnerID:        owner.ID,
		DeviceID:       "DEV-001",
		DeviceName:     "Maison",
		DevicePassword: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUrgencyNumber, pack.UrgencyNumber)

	// Same controller cannot be provisioned twice
	_, err = svc.AddPack(&dto.AddPackRequest{
		OwnerID:        owner.ID,
		DeviceID:       "DEV-001",
		DeviceName:     "Duplicate",
		DevicePassword: "secret",
	})
	assert.ErrorIs(t, err, ErrDeviceIDTaken)
}

func TestAddPackRequiresOwnerCapableUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPackService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	member := createUser(t, db, "member@example.com", models.UserTypeMember, &owner.ID)

	_, err := svc.AddPack(&dto.AddPackRequest{
		OwnerID:        member.ID,
		DeviceID:       "DEV-002",
		DeviceName:     "Garage",
		DevicePassword: "secret",
	})
	assert.ErrorIs(t, err, ErrOwnerNotCapable)
}

func TestUpdatePackUrgencyNormalization(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPackService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	createPack(t, db, owner.ID, "DEV-001", "Maison")

	custom := "15"
	pack, err := svc.UpdateByDeviceID("DEV-001", &dto.UpdatePackRequest{UrgencyNumber: &custom})
	require.NoError(t, err)
	assert.Equal(t, "15", pack.UrgencyNumber)

	// Clearing the number falls back to the default emergency code
	empty := ""
	pack, err = svc.UpdateByDeviceID("DEV-001", &dto.UpdatePackRequest{UrgencyNumber: &empty})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUrgencyNumber, pack.UrgencyNumber)

	name := "Chalet"
	pack, err = svc.UpdateByDeviceID("DEV-001", &dto.UpdatePackRequest{DeviceName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Chalet", pack.DeviceName)
	assert.Equal(t, models.DefaultUrgencyNumber, pack.UrgencyNumber)

	_, err = svc.UpdateByDeviceID("DEV-404", &dto.UpdatePackRequest{DeviceName: &name})
	assert.ErrorIs(t, err, ErrPackNotFound)
}

func TestFindPacks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPackService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	other := createUser(t, db, "other@example.com", models.UserTypeOwner, nil)
	createPack(t, db, owner.ID, "DEV-001", "Maison")
	createPack(t, db, owner.ID, "DEV-002", "Garage")
	createPack(t, db, other.ID, "DEV-003", "Bureau")

	pack, err := svc.FindByDeviceID("DEV-002")
	require.NoError(t, err)
	assert.Equal(t, "Garage", pack.DeviceName)

	_, err = svc.FindByDeviceID("DEV-404")
	assert.ErrorIs(t, err, ErrPackNotFound)

	packs, err := svc.FindAllByOwner(owner.ID)
	require.NoError(t, err)
	assert.Len(t, packs, 2)

	// No packs is an empty list, not an error
	member := createUser(t, db, "member@example.com", models.UserTypeMember, &owner.ID)
	packs, err = svc.FindAllByOwner(member.ID)
	require.NoError(t, err)
	assert.Empty(t, packs)
}
