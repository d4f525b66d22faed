package dao

import (
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dto"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Sprint struct {
	Id        uuid.UUID `gorm:"primaryKey;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name   string             `json:"name"`
	Status types.SprintStatus `json:"status" gorm:"type:varchar(10);index"`

	StartDate time.Time `json:"start_date" gorm:"index"`
	EndDate   time.Time `json:"end_date" gorm:"index"`

	SprintWeeks int `json:"sprint_weeks" gorm:"default:1"`

	Stats *dto.SprintSummary `gorm:"-" json:"-"`
}

func (Sprint) TableName() string { return "sprints" }

func (s *Sprint) ToLightDTO() *dto.SprintLight {
	if s == nil {
		return nil
	}
	return &dto.SprintLight{
		Id:          s.Id,
		Name:        s.Name,
		Status:      s.Status,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		SprintWeeks: s.SprintWeeks,
	}
}

func (s *Sprint) ToDTO() *dto.Sprint {
	if s == nil {
		return nil
	}
	updatedAt := s.UpdatedAt
	return &dto.Sprint{
		SprintLight: *s.ToLightDTO(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   &updatedAt,
		Stats:       s.Stats,
	}
}

// GetSprint возвращает спринт по идентификатору.
func GetSprint(db *gorm.DB, id string) (Sprint, error) {
	var sprint Sprint
	err := db.Where("id = ?", id).First(&sprint).Error
	return sprint, err
}

// GetActiveSprint возвращает активный спринт. При нескольких активных
// выбирается спринт с наиболее ранней датой старта, при равенстве -
// созданный раньше.
func GetActiveSprint(db *gorm.DB) (Sprint, error) {
	var sprint Sprint
	err := db.
		Where("status = ?", types.SprintActive).
		Order("start_date ASC").
		Order("created_at ASC").
		First(&sprint).Error
	return sprint, err
}
