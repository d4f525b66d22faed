// Базовые типы домена AIBoard: статусы спринтов и тикетов, роли пользователей,
// периоды действия токенов.
//
// Основные возможности:
//   - Перечисления статусов спринта (active, done, upcoming) и тикета (todo, inProgress, done).
//   - Роли пользователей (User, PM) со значением по умолчанию.
//   - Проверка валидности значений перечислений.
package types

import "time"

const (
	TokenExpiresPeriod        = time.Hour * 24
	RefreshTokenExpiresPeriod = time.Hour * 24 * 30

	MinPasswordLength = 8
)

type SprintStatus string

const (
	SprintActive   SprintStatus = "active"
	SprintDone     SprintStatus = "done"
	SprintUpcoming SprintStatus = "upcoming"
)

func (s SprintStatus) Valid() bool {
	switch s {
	case SprintActive, SprintDone, SprintUpcoming:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketTodo       TicketStatus = "todo"
	TicketInProgress TicketStatus = "inProgress"
	TicketDone       TicketStatus = "done"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketTodo, TicketInProgress, TicketDone:
		return true
	}
	return false
}

type UserRole string

const (
	RoleUser UserRole = "User"
	RolePM   UserRole = "PM"
)

// DefaultRole - роль, назначаемая пользователю при первичной инициализации.
const DefaultRole = RoleUser

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RolePM:
		return true
	}
	return false
}
