package dto

import (
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
)

// SprintAnalytics - аналитика завершения одного спринта: общие показатели,
// разбивка по неделям и индикаторы здоровья спринта.
type SprintAnalytics struct {
	Overview        SprintOverview  `json:"overview"`
	WeeklyBreakdown []WeekBreakdown `json:"weekly_breakdown"`
	SprintHealth    SprintHealth    `json:"sprint_health"`
}

type SprintOverview struct {
	TotalTickets     int `json:"total_tickets"`
	DoneTickets      int `json:"done_tickets"`
	TotalStoryPoints int `json:"total_story_points"`
	DoneStoryPoints  int `json:"done_story_points"`
	CompletionRate   int `json:"completion_rate"`
}

type WeekBreakdown struct {
	Week int `json:"week"`

	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`

	TotalStoryPoints int `json:"total_story_points"`
	DoneStoryPoints  int `json:"done_story_points"`

	TotalEstimatedDays float64 `json:"total_estimated_days"`
	DoneEstimatedDays  float64 `json:"done_estimated_days"`

	CompletionRate int `json:"completion_rate"`
}

type SprintHealth struct {
	CompletionRate int `json:"completion_rate"`

	VelocityByWeek []WeekVelocity `json:"velocity_by_week"`

	// Распределение работы по неделям: выявляет сползание задач на поздние недели
	WorkDistribution []WeekDistribution `json:"work_distribution"`
}

type WeekVelocity struct {
	Week                 int `json:"week"`
	CompletedStoryPoints int `json:"completed_story_points"`
	CompletedTickets     int `json:"completed_tickets"`
	CompletionRate       int `json:"completion_rate"`
}

type WeekDistribution struct {
	Week      int `json:"week"`
	Planned   int `json:"planned"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// SprintVelocity - показатели скорости одного спринта для трендов по всем
// спринтам. Velocity соответствует завершенным story points.
type SprintVelocity struct {
	SprintName   string             `json:"sprint_name"`
	SprintStatus types.SprintStatus `json:"sprint_status"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalWeeks int `json:"total_weeks"`

	PlannedStoryPoints   int `json:"planned_story_points"`
	CompletedStoryPoints int `json:"completed_story_points"`

	PlannedTickets   int `json:"planned_tickets"`
	CompletedTickets int `json:"completed_tickets"`

	CompletionRate int `json:"completion_rate"`
	Velocity       int `json:"velocity"`
}

// WeekPattern - сводка завершения по номеру недели среди всех спринтов.
type WeekPattern struct {
	Week int `json:"week"`

	TotalCards     int `json:"total_cards"`
	CompletedCards int `json:"completed_cards"`

	TotalStoryPoints     int `json:"total_story_points"`
	CompletedStoryPoints int `json:"completed_story_points"`

	CompletionRate int `json:"completion_rate"`
}

// TicketTimingAnalytics - аналитика времени выполнения тикетов спринта.
type TicketTimingAnalytics struct {
	TicketTimings []TicketTiming `json:"ticket_timings"`
	Insights      TimingInsights `json:"insights"`
}

type TicketTiming struct {
	TicketId   uuid.UUID          `json:"ticket_id"`
	CardId     string             `json:"card_id"`
	SprintWeek int                `json:"sprint_week"`
	Status     types.TicketStatus `json:"status"`

	StoryPoints int `json:"story_points"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" extensions:"x-nullable"`

	// Время выполнения в часах, null для незавершенных тикетов
	LeadTimeHours *int `json:"lead_time_hours" extensions:"x-nullable"`
}

type TimingInsights struct {
	TotalTickets     int `json:"total_tickets"`
	CompletedTickets int `json:"completed_tickets"`

	AverageLeadTimeHours int `json:"average_lead_time_hours"`

	FastestCompletionHours *int `json:"fastest_completion_hours" extensions:"x-nullable"`
	SlowestCompletionHours *int `json:"slowest_completion_hours" extensions:"x-nullable"`
}
