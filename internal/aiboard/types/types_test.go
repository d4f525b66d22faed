package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintStatusValid(t *testing.T) {
	assert.True(t, SprintActive.Valid())
	assert.True(t, SprintDone.Valid())
	assert.True(t, SprintUpcoming.Valid())
	assert.False(t, SprintStatus("archived").Valid())
	assert.False(t, SprintStatus("").Valid())
}

func TestTicketStatusValid(t *testing.T) {
	assert.True(t, TicketTodo.Valid())
	assert.True(t, TicketInProgress.Valid())
	assert.True(t, TicketDone.Valid())
	assert.False(t, TicketStatus("blocked").Valid())
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RolePM.Valid())
	assert.False(t, UserRole("Admin").Valid())
	assert.Equal(t, RoleUser, DefaultRole)
}
