// DAO (Data Access Object) для работы с данными пользователей.
//
// Основные возможности:
//   - CRUD операции с пользователями.
//   - Поиск пользователей по email и роли.
//   - Преобразование моделей в DTO.
package dao

import (
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dto"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Пользователи
type User struct {
	ID uuid.UUID `gorm:"column:id;primaryKey;type:text" json:"id"`

	Password  string  `json:"-"`
	Username  *string `json:"username" gorm:"uniqueIndex:,where:deleted_at is NULL" validate:"omitempty,username"`
	Email     string  `json:"email" gorm:"uniqueIndex:,where:deleted_at is NULL and email <> ''"`
	Phone     *string `json:"phone,omitempty" extensions:"x-nullable"`
	FirstName string  `json:"first_name" validate:"fullName"`
	LastName  string  `json:"last_name" validate:"fullName"`

	Avatar string `json:"avatar"`

	Role types.UserRole `json:"role" gorm:"type:varchar(10);default:'User'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	IsSuperuser bool `json:"is_superuser"`
	IsActive    bool `json:"is_active" gorm:"default:true"`

	LastActive      *time.Time `json:"last_active" extensions:"x-nullable"`
	LastLoginTime   *time.Time `json:"-" extensions:"x-nullable"`
	LastLogoutTime  *time.Time `json:"-" extensions:"x-nullable"`
	LastLoginIp     string     `json:"-"`
	LastLogoutIp    string     `json:"-"`
	LastLoginUagent string     `json:"-"`
	TokenUpdatedAt  *time.Time `json:"-" extensions:"x-nullable"`
}

func (u *User) ToLightDTO() *dto.UserLight {
	if u == nil {
		return nil
	}
	return &dto.UserLight{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		Role:      u.Role,
	}
}

func (u *User) ToDTO() *dto.User {
	if u == nil {
		return nil
	}
	return &dto.User{
		UserLight:   *u.ToLightDTO(),
		CreatedAt:   u.CreatedAt,
		LastActive:  u.LastActive,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
	}
}

// GetUser возвращает пользователя по идентификатору.
func GetUser(db *gorm.DB, id string) (User, error) {
	var user User
	err := db.Where("id = ?", id).First(&user).Error
	return user, err
}

// GetUserByEmail возвращает активного пользователя по email.
func GetUserByEmail(db *gorm.DB, email string) (User, error) {
	var user User
	err := db.Where("email = ?", email).First(&user).Error
	return user, err
}
