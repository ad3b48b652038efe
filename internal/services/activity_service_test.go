package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hera-security/hera-backend/internal/dto"
	"github.com/hera-security/hera-backend/internal/models"
)

func TestAddActivityDefaultsTimestamp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)

	before := time.Now().UTC().Add(-time.Second)
	activity, err := svc.Add(&dto.AddActivityRequest{
		OwnerID: owner.ID,
		Content: "Alarm armed from app",
	})
	require.NoError(t, err)
	assert.False(t, activity.Timestamp.Before(before))

	explicit := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	activity, err = svc.Add(&dto.AddActivityRequest{
		OwnerID:   owner.ID,
		Content:   "Door opened",
		TimeStamp: &explicit,
	})
	require.NoError(t, err)
	assert.True(t, activity.Timestamp.Equal(explicit))
}

func TestFindActivitiesByDayWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)

	at := func(value string) *time.Time {
		ts, err := time.Parse(time.RFC3339, value)
		require.NoError(t, err)
		return &ts
	}

	entries := []struct {
		content string
		ts      *time.Time
	}{
		{"day start", at("2024-03-01T00:00:00Z")},
		{"day end", at("2024-03-01T23:59:59Z")},
		{"next day", at("2024-03-02T00:00:00Z")},
		{"previous day", at("2024-02-29T23:59:59Z")},
	}
	for _, e := range entries {
		_, err := svc.Add(&dto.AddActivityRequest{OwnerID: owner.ID, Content: e.content, TimeStamp: e.ts})
		require.NoError(t, err)
	}

	// [2024-03-01T00:00:00Z, 2024-03-02T00:00:00Z), newest first
	activities, err := svc.FindByOwner(owner.ID, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "day end", activities[0].Content)
	assert.Equal(t, "day start", activities[1].Content)

	// No date returns the whole timeline, newest first
	activities, err = svc.FindByOwner(owner.ID, "")
	require.NoError(t, err)
	require.Len(t, activities, 4)
	assert.Equal(t, "next day", activities[0].Content)

	_, err = svc.FindByOwner(owner.ID, "01/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFindActivitiesScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db)

	owner := createUser(t, db, "owner@example.com", models.UserTypeOwner, nil)
	other := createUser(t, db, "other@example.com", models.UserTypeOwner, nil)

	_, err := svc.Add(&dto.AddActivityRequest{OwnerID: owner.ID, Content: "mine"})
	require.NoError(t, err)
	_, err = svc.Add(&dto.AddActivityRequest{OwnerID: other.ID, Content: "theirs"})
	require.NoError(t, err)

	activities, err := svc.FindByOwner(owner.ID, "")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "mine", activities[0].Content)
}
