// DAO (Data Access Object) - предоставляет методы для взаимодействия с базой данных.
//
// Основные возможности:
//   - Проверка смены статусов тикета и времени завершения.
//   - Проверка агрегации статистики спринта.
//   - Проверка выбора активного спринта.
package dao

import (
	"os"
	"testing"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func TestMain(m *testing.M) {
	var err error
	db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		os.Exit(1)
	}
	if err := db.AutoMigrate(&User{}, &Sprint{}, &Ticket{}); err != nil {
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func TestApplyStatus(t *testing.T) {
	ticket := Ticket{
		Id:     GenUUID(),
		Title:  "Fix login form",
		Status: types.TicketTodo,
	}

	ticket.ApplyStatus(types.TicketInProgress)
	assert.Equal(t, types.TicketInProgress, ticket.Status)
	assert.Nil(t, ticket.CompletedAt)

	ticket.ApplyStatus(types.TicketDone)
	assert.Equal(t, types.TicketDone, ticket.Status)
	require.NotNil(t, ticket.CompletedAt)
	firstDone := *ticket.CompletedAt

	// Повторный перевод в done не сдвигает время завершения
	ticket.ApplyStatus(types.TicketDone)
	require.NotNil(t, ticket.CompletedAt)
	assert.Equal(t, firstDone, *ticket.CompletedAt)

	ticket.ApplyStatus(types.TicketTodo)
	assert.Equal(t, types.TicketTodo, ticket.Status)
	assert.Nil(t, ticket.CompletedAt)
}

func TestGetSprintSummary(t *testing.T) {
	// Setup
	sprint := Sprint{
		Id:        GenUUID(),
		Name:      "Sprint summary",
		Status:    types.SprintActive,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 14),
	}
	require.NoError(t, db.Create(&sprint).Error)

	now := time.Now()
	tickets := []Ticket{
		{Id: GenUUID(), Title: "#1", Status: types.TicketDone, StoryPoints: 2, EstimatedDays: 1, SprintWeek: 1, SprintId: sprint.Id, CompletedAt: &now},
		{Id: GenUUID(), Title: "#2", Status: types.TicketInProgress, StoryPoints: 3, EstimatedDays: 2, SprintWeek: 1, SprintId: sprint.Id},
		{Id: GenUUID(), Title: "#3", Status: types.TicketTodo, StoryPoints: 5, EstimatedDays: 3, SprintWeek: 2, SprintId: sprint.Id},
	}
	require.NoError(t, db.Create(&tickets).Error)
	t.Cleanup(func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&tickets)
		db.Delete(&sprint)
	})

	summary, err := GetSprintSummary(db, sprint.Id)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalTickets)
	assert.Equal(t, 1, summary.DoneCount)
	assert.Equal(t, 1, summary.InProgressCount)
	assert.Equal(t, 1, summary.TodoCount)
	assert.Equal(t, 10, summary.TotalStoryPoints)
	assert.Equal(t, 2, summary.DoneStoryPoints)
	assert.Equal(t, float64(6), summary.TotalEstimatedDays)
	assert.Equal(t, float64(1), summary.DoneEstimatedDays)
	assert.Equal(t, 33, summary.CompletionPercentage)
}

func TestGetSprintSummaryEmpty(t *testing.T) {
	sprint := Sprint{
		Id:        GenUUID(),
		Name:      "Empty sprint",
		Status:    types.SprintUpcoming,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, db.Create(&sprint).Error)
	t.Cleanup(func() { db.Delete(&sprint) })

	summary, err := GetSprintSummary(db, sprint.Id)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalTickets)
	assert.Equal(t, 0, summary.CompletionPercentage)
}

func TestSprintDeleteKeepsTickets(t *testing.T) {
	sprint := Sprint{
		Id:        GenUUID(),
		Name:      "Doomed sprint",
		Status:    types.SprintDone,
		StartDate: time.Now().AddDate(0, 0, -14),
		EndDate:   time.Now(),
	}
	require.NoError(t, db.Create(&sprint).Error)

	ticket := Ticket{
		Id:       GenUUID(),
		Title:    "Orphan to be",
		Status:   types.TicketTodo,
		SprintId: sprint.Id,
	}
	require.NoError(t, db.Create(&ticket).Error)
	t.Cleanup(func() { db.Delete(&ticket) })

	require.NoError(t, db.Delete(&sprint).Error)

	var left Ticket
	require.NoError(t, db.Where("id = ?", ticket.Id).First(&left).Error)
	assert.Equal(t, sprint.Id, left.SprintId)
}
