package analytics

import (
	"testing"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doneTicket(week int, points int, leadHours int) dao.Ticket {
	created := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	completed := created.Add(time.Duration(leadHours) * time.Hour)
	return dao.Ticket{
		Id:          dao.GenUUID(),
		Status:      types.TicketDone,
		StoryPoints: points,
		SprintWeek:  week,
		CreatedAt:   created,
		CompletedAt: &completed,
	}
}

func openTicket(week int, points int, status types.TicketStatus) dao.Ticket {
	return dao.Ticket{
		Id:          dao.GenUUID(),
		Status:      status,
		StoryPoints: points,
		SprintWeek:  week,
		CreatedAt:   time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestSprintAnalytics(t *testing.T) {
	tickets := []dao.Ticket{
		doneTicket(1, 3, 24),
		openTicket(1, 2, types.TicketInProgress),
		doneTicket(2, 5, 48),
		openTicket(2, 1, types.TicketTodo),
		openTicket(2, 8, types.TicketTodo),
	}

	a := Sprint(tickets)

	assert.Equal(t, 5, a.Overview.TotalTickets)
	assert.Equal(t, 2, a.Overview.DoneTickets)
	assert.Equal(t, 19, a.Overview.TotalStoryPoints)
	assert.Equal(t, 8, a.Overview.DoneStoryPoints)
	assert.Equal(t, 40, a.Overview.CompletionRate)

	require.Len(t, a.WeeklyBreakdown, 2)
	assert.Equal(t, 1, a.WeeklyBreakdown[0].Week)
	assert.Equal(t, 2, a.WeeklyBreakdown[1].Week)
	assert.Equal(t, 50, a.WeeklyBreakdown[0].CompletionRate)
	assert.Equal(t, 33, a.WeeklyBreakdown[1].CompletionRate)

	// Суммы по неделям сходятся с общими показателями
	total, done := 0, 0
	for _, row := range a.WeeklyBreakdown {
		total += row.Total
		done += row.Done
	}
	assert.Equal(t, a.Overview.TotalTickets, total)
	assert.Equal(t, a.Overview.DoneTickets, done)

	require.Len(t, a.SprintHealth.VelocityByWeek, 2)
	assert.Equal(t, 3, a.SprintHealth.VelocityByWeek[0].CompletedStoryPoints)
	assert.Equal(t, 5, a.SprintHealth.VelocityByWeek[1].CompletedStoryPoints)
	assert.Equal(t, 2, a.SprintHealth.WorkDistribution[1].Remaining)
}

func TestSprintAnalyticsEmpty(t *testing.T) {
	a := Sprint(nil)

	assert.Equal(t, 0, a.Overview.TotalTickets)
	assert.Equal(t, 0, a.Overview.CompletionRate)
	assert.Empty(t, a.WeeklyBreakdown)
}

func TestVelocityTrends(t *testing.T) {
	first := dao.Sprint{
		Id:          dao.GenUUID(),
		Name:        "Sprint 1",
		Status:      types.SprintDone,
		StartDate:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC),
		SprintWeeks: 2,
	}
	second := dao.Sprint{
		Id:        dao.GenUUID(),
		Name:      "Sprint 2",
		Status:    types.SprintActive,
		StartDate: time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
	}

	ticketsBySprint := map[string][]dao.Ticket{
		first.Id.String(): {
			doneTicket(1, 50, 10),
			doneTicket(2, 30, 20),
			openTicket(2, 20, types.TicketTodo),
		},
		second.Id.String(): {
			doneTicket(1, 100, 30),
		},
	}

	// Спринты подаются в обратном порядке, результат должен быть по дате старта
	trends := VelocityTrends([]dao.Sprint{second, first}, func(sprint *dao.Sprint) []dao.Ticket {
		return ticketsBySprint[sprint.Id.String()]
	})

	require.Len(t, trends, 2)
	assert.Equal(t, "Sprint 1", trends[0].SprintName)
	assert.Equal(t, 80, trends[0].Velocity)
	assert.Equal(t, 100, trends[0].PlannedStoryPoints)
	assert.Equal(t, 67, trends[0].CompletionRate)
	assert.Equal(t, 2, trends[0].TotalWeeks)

	assert.Equal(t, "Sprint 2", trends[1].SprintName)
	assert.Equal(t, 100, trends[1].Velocity)
	// Спринт без указанных недель считается однонедельным
	assert.Equal(t, 1, trends[1].TotalWeeks)
}

func TestWeeklyCompletionPatterns(t *testing.T) {
	tickets := []dao.Ticket{
		doneTicket(2, 5, 10),
		doneTicket(1, 3, 10),
		openTicket(1, 2, types.TicketTodo),
	}

	patterns := WeeklyCompletionPatterns(tickets)

	require.Len(t, patterns, 2)
	assert.Equal(t, 1, patterns[0].Week)
	assert.Equal(t, 2, patterns[0].TotalCards)
	assert.Equal(t, 1, patterns[0].CompletedCards)
	assert.Equal(t, 50, patterns[0].CompletionRate)
	assert.Equal(t, 2, patterns[1].Week)
	assert.Equal(t, 100, patterns[1].CompletionRate)
}

func TestTicketTiming(t *testing.T) {
	tickets := []dao.Ticket{
		doneTicket(1, 3, 12),
		doneTicket(1, 5, 36),
		openTicket(2, 2, types.TicketInProgress),
	}

	a := TicketTiming(tickets)

	require.Len(t, a.TicketTimings, 3)
	require.NotNil(t, a.TicketTimings[0].LeadTimeHours)
	assert.Equal(t, 12, *a.TicketTimings[0].LeadTimeHours)
	assert.Nil(t, a.TicketTimings[2].LeadTimeHours)

	assert.Equal(t, 3, a.Insights.TotalTickets)
	assert.Equal(t, 2, a.Insights.CompletedTickets)
	assert.Equal(t, 24, a.Insights.AverageLeadTimeHours)
	require.NotNil(t, a.Insights.FastestCompletionHours)
	assert.Equal(t, 12, *a.Insights.FastestCompletionHours)
	require.NotNil(t, a.Insights.SlowestCompletionHours)
	assert.Equal(t, 36, *a.Insights.SlowestCompletionHours)
}

func TestTicketTimingEmpty(t *testing.T) {
	a := TicketTiming(nil)

	assert.Equal(t, 0, a.Insights.TotalTickets)
	assert.Equal(t, 0, a.Insights.AverageLeadTimeHours)
	assert.Nil(t, a.Insights.FastestCompletionHours)
	assert.Nil(t, a.Insights.SlowestCompletionHours)
	assert.Empty(t, a.TicketTimings)
}

func TestLeadTimeRounding(t *testing.T) {
	created := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	completed := created.Add(90 * time.Minute)
	ticket := dao.Ticket{
		Id:          dao.GenUUID(),
		Status:      types.TicketDone,
		CreatedAt:   created,
		CompletedAt: &completed,
	}

	a := TicketTiming([]dao.Ticket{ticket})
	require.NotNil(t, a.TicketTimings[0].LeadTimeHours)
	assert.Equal(t, 2, *a.TicketTimings[0].LeadTimeHours)
}
