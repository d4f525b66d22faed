// DAO (Data Access Object) - предоставляет интерфейс для взаимодействия с базой данных.
// Содержит модели и функции для работы с сущностями доски: пользователями, спринтами и тикетами.
//
// Основные возможности:
//   - Работа с пользователями (создание, аутентификация, обновление активности).
//   - Работа со спринтами (CRUD, выбор активного спринта, сводная статистика).
//   - Работа с тикетами (CRUD, смена статуса с фиксацией времени завершения).
//   - Генерация UUID и паролей.
package dao

import (
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// GenUUID генерирует уникальный идентификатор в формате UUID. Не принимает параметров и возвращает UUID.
//
// Возвращает:
//   - uuid.UUID: UUID, представляющий собой уникальный идентификатор.
func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// -migration
type PaginationResponse struct {
	Count  int64 `json:"count"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Result any   `json:"result"`
}

func PaginationRequest(offset int, limit int, query *gorm.DB, target any) (res PaginationResponse, err error) {
	// Count query
	if err := query.Session(&gorm.Session{}).Model(target).Count(&res.Count).Error; err != nil {
		return res, err
	}

	// Data query
	if err := query.Offset(offset).Limit(limit).Find(target).Error; err != nil {
		return res, err
	}

	res.Result = target
	res.Limit = limit
	res.Offset = offset

	return res, nil
}
