package dao

import (
	"math"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dto"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	Id        uuid.UUID `gorm:"primaryKey;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	CardId string `json:"card_id"`
	Title  string `json:"title"`

	Status types.TicketStatus `json:"status" gorm:"type:varchar(12);index"`

	StoryPoints   int     `json:"story_points"`
	EstimatedDays float64 `json:"estimated_days"`

	SprintWeek int `json:"sprint_week" gorm:"default:1"`

	// Слабые ссылки: спринт может быть удален, тикет остается
	SprintId   uuid.UUID `json:"sprint_id" gorm:"type:text;index"`
	AssigneeId uuid.UUID `json:"assignee_id" gorm:"type:text;index"`

	// Момент перехода в done, снимается при обратном переходе
	CompletedAt *time.Time `json:"completed_at" extensions:"x-nullable"`

	Sprint   *Sprint `gorm:"foreignKey:SprintId" extensions:"x-nullable"`
	Assignee *User   `gorm:"foreignKey:AssigneeId" extensions:"x-nullable"`
}

func (Ticket) TableName() string { return "tickets" }

// ApplyStatus переводит тикет в новый статус. При переходе в done
// фиксируется момент завершения, при выходе из done он снимается.
// Повторный перевод в done не меняет уже зафиксированный момент.
func (t *Ticket) ApplyStatus(status types.TicketStatus) {
	switch {
	case status == types.TicketDone && t.Status != types.TicketDone:
		now := time.Now()
		t.CompletedAt = &now
	case status != types.TicketDone:
		t.CompletedAt = nil
	}
	t.Status = status
}

func (t *Ticket) ToLightDTO() *dto.TicketLight {
	if t == nil {
		return nil
	}
	return &dto.TicketLight{
		Id:            t.Id,
		CardId:        t.CardId,
		Title:         t.Title,
		Status:        t.Status,
		StoryPoints:   t.StoryPoints,
		EstimatedDays: t.EstimatedDays,
		SprintWeek:    t.SprintWeek,
		SprintId:      t.SprintId,
		AssigneeId:    t.AssigneeId,
	}
}

func (t *Ticket) ToDTO() *dto.Ticket {
	if t == nil {
		return nil
	}
	updatedAt := t.UpdatedAt
	return &dto.Ticket{
		TicketLight: *t.ToLightDTO(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   &updatedAt,
		CompletedAt: t.CompletedAt,
		Sprint:      t.Sprint.ToLightDTO(),
		Assignee:    t.Assignee.ToLightDTO(),
	}
}

// GetTicket возвращает тикет по идентификатору.
func GetTicket(db *gorm.DB, id string) (Ticket, error) {
	var ticket Ticket
	err := db.Where("id = ?", id).First(&ticket).Error
	return ticket, err
}

// GetSprintTickets возвращает все тикеты спринта.
func GetSprintTickets(db *gorm.DB, sprintId uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := db.Where("sprint_id = ?", sprintId).Find(&tickets).Error
	return tickets, err
}

// -migration
type sprintSummaryRow struct {
	TotalTickets       int
	TotalStoryPoints   int
	TotalEstimatedDays float64
	TodoCount          int
	InProgressCount    int
	DoneCount          int
	DoneStoryPoints    int
	DoneEstimatedDays  float64
}

// GetSprintSummary считает сводку по тикетам спринта одним запросом.
// Для спринта без тикетов возвращает нули, процент завершения 0.
func GetSprintSummary(db *gorm.DB, sprintId uuid.UUID) (dto.SprintSummary, error) {
	var row sprintSummaryRow
	if err := db.Model(&Ticket{}).
		Select(`count(*) as total_tickets,
coalesce(sum(story_points), 0) as total_story_points,
coalesce(sum(estimated_days), 0) as total_estimated_days,
coalesce(sum(case when status = 'todo' then 1 else 0 end), 0) as todo_count,
coalesce(sum(case when status = 'inProgress' then 1 else 0 end), 0) as in_progress_count,
coalesce(sum(case when status = 'done' then 1 else 0 end), 0) as done_count,
coalesce(sum(case when status = 'done' then story_points else 0 end), 0) as done_story_points,
coalesce(sum(case when status = 'done' then estimated_days else 0 end), 0) as done_estimated_days`).
		Where("sprint_id = ?", sprintId).
		Scan(&row).Error; err != nil {
		return dto.SprintSummary{}, err
	}

	summary := dto.SprintSummary{
		TotalTickets:       row.TotalTickets,
		TotalStoryPoints:   row.TotalStoryPoints,
		TotalEstimatedDays: row.TotalEstimatedDays,
		TodoCount:          row.TodoCount,
		InProgressCount:    row.InProgressCount,
		DoneCount:          row.DoneCount,
		DoneStoryPoints:    row.DoneStoryPoints,
		DoneEstimatedDays:  row.DoneEstimatedDays,
	}
	if row.TotalTickets > 0 {
		summary.CompletionPercentage = int(math.Round(float64(row.DoneCount) / float64(row.TotalTickets) * 100))
	}
	return summary, nil
}
