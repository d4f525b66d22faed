package dto

import (
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
)

type SprintLight struct {
	Id     uuid.UUID          `json:"id"`
	Name   string             `json:"name"`
	Status types.SprintStatus `json:"status"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Количество недель в спринте
	SprintWeeks int `json:"sprint_weeks"`
}

type Sprint struct {
	SprintLight

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	Stats *SprintSummary `json:"stats,omitempty" extensions:"x-nullable"`
}

// SprintSummary - агрегат тикетов одного спринта: количество по статусам,
// суммы story points и оценок в днях, процент завершения.
type SprintSummary struct {
	TotalTickets       int     `json:"total_tickets"`
	TotalStoryPoints   int     `json:"total_story_points"`
	TotalEstimatedDays float64 `json:"total_estimated_days"`

	TodoCount       int `json:"todo_count"`
	InProgressCount int `json:"in_progress_count"`
	DoneCount       int `json:"done_count"`

	DoneStoryPoints   int     `json:"done_story_points"`
	DoneEstimatedDays float64 `json:"done_estimated_days"`

	CompletionPercentage int `json:"completion_percentage"`
}
