package dto

import (
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
)

type TicketLight struct {
	Id     uuid.UUID          `json:"id"`
	CardId string             `json:"card_id"`
	Title  string             `json:"title"`
	Status types.TicketStatus `json:"status"`

	StoryPoints   int     `json:"story_points"`
	EstimatedDays float64 `json:"estimated_days"`

	// Неделя спринта, к которой относится тикет
	SprintWeek int `json:"sprint_week"`

	SprintId   uuid.UUID `json:"sprint_id"`
	AssigneeId uuid.UUID `json:"assignee_id"`
}

type Ticket struct {
	TicketLight

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" extensions:"x-nullable"`

	Sprint   *SprintLight `json:"sprint,omitempty" extensions:"x-nullable"`
	Assignee *UserLight   `json:"assignee,omitempty" extensions:"x-nullable"`
}
