package dto

import (
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
)

type UserLight struct {
	ID        uuid.UUID      `json:"id"`
	Username  *string        `json:"username,omitempty" extensions:"x-nullable"`
	Email     string         `json:"email"`
	Phone     *string        `json:"phone,omitempty" extensions:"x-nullable"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Avatar    string         `json:"avatar,omitempty"`
	Role      types.UserRole `json:"role"`
}

type User struct {
	UserLight

	CreatedAt  time.Time  `json:"created_at"`
	LastActive *time.Time `json:"last_active,omitempty" extensions:"x-nullable"`

	IsSuperuser bool `json:"is_superuser"`
	IsActive    bool `json:"is_active"`
}

// CreatedUser - результат создания участника команды с учетной записью.
type CreatedUser struct {
	UserId  uuid.UUID `json:"user_id"`
	Message string    `json:"message"`
}
