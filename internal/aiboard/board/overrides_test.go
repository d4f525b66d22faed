package board

import (
	"os"
	"testing"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
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
	if err := db.AutoMigrate(&dao.Ticket{}); err != nil {
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func createTicket(t *testing.T) dao.Ticket {
	ticket := dao.Ticket{
		Id:         dao.GenUUID(),
		Title:      "Board ticket",
		Status:     types.TicketTodo,
		SprintWeek: 1,
	}
	require.NoError(t, db.Create(&ticket).Error)
	t.Cleanup(func() { db.Delete(&ticket) })
	return ticket
}

func TestDropNoop(t *testing.T) {
	store := NewOverrideStore()
	ticket := createTicket(t)

	require.NoError(t, store.Drop(db, &ticket, ticket.Status, ticket.SprintWeek))

	_, ok := store.Get(ticket.Id)
	assert.False(t, ok)

	var stored dao.Ticket
	require.NoError(t, db.Where("id = ?", ticket.Id).First(&stored).Error)
	assert.Equal(t, types.TicketTodo, stored.Status)
}

func TestDropConfirm(t *testing.T) {
	store := NewOverrideStore()
	ticket := createTicket(t)

	require.NoError(t, store.Drop(db, &ticket, types.TicketDone, 2))

	// Подтвержденная запись снимает override
	_, ok := store.Get(ticket.Id)
	assert.False(t, ok)

	var stored dao.Ticket
	require.NoError(t, db.Where("id = ?", ticket.Id).First(&stored).Error)
	assert.Equal(t, types.TicketDone, stored.Status)
	assert.Equal(t, 2, stored.SprintWeek)
	assert.NotNil(t, stored.CompletedAt)
}

func TestDropRollback(t *testing.T) {
	store := NewOverrideStore()
	ticket := createTicket(t)

	brokenDb := db.Session(&gorm.Session{DryRun: false})
	brokenDb.Error = gorm.ErrInvalidDB

	err := store.Drop(brokenDb, &ticket, types.TicketDone, 2)
	require.Error(t, err)

	_, ok := store.Get(ticket.Id)
	assert.False(t, ok, "override must be rolled back on write failure")

	var stored dao.Ticket
	require.NoError(t, db.Where("id = ?", ticket.Id).First(&stored).Error)
	assert.Equal(t, types.TicketTodo, stored.Status)
	assert.Equal(t, 1, stored.SprintWeek)
}

func TestMerge(t *testing.T) {
	store := NewOverrideStore()

	moved := dao.Ticket{Id: dao.GenUUID(), Status: types.TicketTodo, SprintWeek: 1}
	untouched := dao.Ticket{Id: dao.GenUUID(), Status: types.TicketInProgress, SprintWeek: 2}

	store.Stash(moved.Id, Override{Status: types.TicketDone, Week: 3})

	merged := store.Merge([]dao.Ticket{moved, untouched})

	assert.Equal(t, types.TicketDone, merged[0].Status)
	assert.Equal(t, 3, merged[0].SprintWeek)
	assert.NotNil(t, merged[0].CompletedAt)

	assert.Equal(t, types.TicketInProgress, merged[1].Status)
	assert.Equal(t, 2, merged[1].SprintWeek)
}
