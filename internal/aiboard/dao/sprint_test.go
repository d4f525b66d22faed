package dao

import (
	"testing"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetActiveSprint(t *testing.T) {
	// Setup: два активных спринта, выбираться должен с ранней датой старта
	early := Sprint{
		Id:        GenUUID(),
		Name:      "Early active",
		Status:    types.SprintActive,
		StartDate: time.Now().AddDate(0, 0, -7),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}
	late := Sprint{
		Id:        GenUUID(),
		Name:      "Late active",
		Status:    types.SprintActive,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 14),
	}
	require.NoError(t, db.Create(&late).Error)
	require.NoError(t, db.Create(&early).Error)
	t.Cleanup(func() {
		db.Delete(&early)
		db.Delete(&late)
	})

	sprint, err := GetActiveSprint(db)
	require.NoError(t, err)
	assert.Equal(t, early.Id, sprint.Id)
}

func TestGetActiveSprintNone(t *testing.T) {
	sprint := Sprint{
		Id:        GenUUID(),
		Name:      "Upcoming only",
		Status:    types.SprintUpcoming,
		StartDate: time.Now().AddDate(0, 0, 7),
		EndDate:   time.Now().AddDate(0, 0, 14),
	}
	require.NoError(t, db.Create(&sprint).Error)
	t.Cleanup(func() { db.Delete(&sprint) })

	_, err := GetActiveSprint(db)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserEmailUnique(t *testing.T) {
	username := "petrov"
	user := User{
		ID:       GenUUID(),
		Username: &username,
		Email:    "petrov@example.org",
		Role:     types.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() { db.Unscoped().Delete(&user) })

	dupName := "petrov2"
	dup := User{
		ID:       GenUUID(),
		Username: &dupName,
		Email:    "petrov@example.org",
		Role:     types.RoleUser,
	}
	assert.Error(t, db.Create(&dup).Error)

	var count int64
	require.NoError(t, db.Model(&User{}).Where("email = ?", "petrov@example.org").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenPasswordHash(t *testing.T) {
	hash := GenPasswordHash("password123")
	assert.Contains(t, hash, "pbkdf2_sha256$260000$")
	assert.NotEqual(t, hash, GenPasswordHash("password123"))
}
