// Агрегация аналитики по спринтам и тикетам: разбивка спринта по неделям,
// тренды скорости команды, паттерны завершения по неделям и времена
// выполнения тикетов. Функции чистые, работают над выборками DAO.
//
// Численная политика: все проценты и часы округляются арифметически
// (половина вверх на неотрицательных значениях).
package analytics

import (
	"math"
	"sort"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dto"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/utils"
)

// completionRate возвращает округленный процент done/total, 0 при total == 0.
func completionRate(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Sprint строит аналитику одного спринта по его тикетам: общие показатели,
// понедельную разбивку (отсортированную по номеру недели) и индикаторы
// здоровья спринта.
func Sprint(tickets []dao.Ticket) dto.SprintAnalytics {
	byWeek := utils.GroupBy(tickets, func(t *dao.Ticket) int { return t.SprintWeek })

	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	weeklyBreakdown := make([]dto.WeekBreakdown, 0, len(weeks))
	for _, week := range weeks {
		row := dto.WeekBreakdown{Week: week}
		for _, t := range byWeek[week] {
			row.Total++
			switch t.Status {
			case types.TicketTodo:
				row.Todo++
			case types.TicketInProgress:
				row.InProgress++
			case types.TicketDone:
				row.Done++
			}
			row.TotalStoryPoints += t.StoryPoints
			row.TotalEstimatedDays += t.EstimatedDays
			if t.Status == types.TicketDone {
				row.DoneStoryPoints += t.StoryPoints
				row.DoneEstimatedDays += t.EstimatedDays
			}
		}
		row.CompletionRate = completionRate(row.Done, row.Total)
		weeklyBreakdown = append(weeklyBreakdown, row)
	}

	overview := dto.SprintOverview{TotalTickets: len(tickets)}
	for _, t := range tickets {
		overview.TotalStoryPoints += t.StoryPoints
		if t.Status == types.TicketDone {
			overview.DoneTickets++
			overview.DoneStoryPoints += t.StoryPoints
		}
	}
	overview.CompletionRate = completionRate(overview.DoneTickets, overview.TotalTickets)

	health := dto.SprintHealth{
		CompletionRate:   overview.CompletionRate,
		VelocityByWeek:   make([]dto.WeekVelocity, 0, len(weeklyBreakdown)),
		WorkDistribution: make([]dto.WeekDistribution, 0, len(weeklyBreakdown)),
	}
	for _, row := range weeklyBreakdown {
		health.VelocityByWeek = append(health.VelocityByWeek, dto.WeekVelocity{
			Week:                 row.Week,
			CompletedStoryPoints: row.DoneStoryPoints,
			CompletedTickets:     row.Done,
			CompletionRate:       row.CompletionRate,
		})
		health.WorkDistribution = append(health.WorkDistribution, dto.WeekDistribution{
			Week:      row.Week,
			Planned:   row.Total,
			Completed: row.Done,
			Remaining: row.Total - row.Done,
		})
	}

	return dto.SprintAnalytics{
		Overview:        overview,
		WeeklyBreakdown: weeklyBreakdown,
		SprintHealth:    health,
	}
}

// VelocityTrends считает показатели скорости для каждого спринта.
// Velocity спринта равна сумме story points завершенных тикетов.
// Результат отсортирован по дате старта по возрастанию.
func VelocityTrends(sprints []dao.Sprint, ticketsBySprint func(sprint *dao.Sprint) []dao.Ticket) []dto.SprintVelocity {
	trends := make([]dto.SprintVelocity, 0, len(sprints))
	for i := range sprints {
		sprint := &sprints[i]
		tickets := ticketsBySprint(sprint)

		v := dto.SprintVelocity{
			SprintName:     sprint.Name,
			SprintStatus:   sprint.Status,
			StartDate:      sprint.StartDate,
			EndDate:        sprint.EndDate,
			TotalWeeks:     sprint.SprintWeeks,
			PlannedTickets: len(tickets),
		}
		if v.TotalWeeks == 0 {
			v.TotalWeeks = 1
		}
		for _, t := range tickets {
			v.PlannedStoryPoints += t.StoryPoints
			if t.Status == types.TicketDone {
				v.CompletedTickets++
				v.CompletedStoryPoints += t.StoryPoints
			}
		}
		v.CompletionRate = completionRate(v.CompletedTickets, v.PlannedTickets)
		v.Velocity = v.CompletedStoryPoints

		trends = append(trends, v)
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].StartDate.Before(trends[j].StartDate)
	})

	return trends
}

// WeeklyCompletionPatterns группирует тикеты всех спринтов по номеру недели:
// показывает, на каких неделях команда обычно завершает больше всего работы.
func WeeklyCompletionPatterns(tickets []dao.Ticket) []dto.WeekPattern {
	byWeek := utils.GroupBy(tickets, func(t *dao.Ticket) int { return t.SprintWeek })

	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	patterns := make([]dto.WeekPattern, 0, len(weeks))
	for _, week := range weeks {
		p := dto.WeekPattern{Week: week}
		for _, t := range byWeek[week] {
			p.TotalCards++
			p.TotalStoryPoints += t.StoryPoints
			if t.Status == types.TicketDone {
				p.CompletedCards++
				p.CompletedStoryPoints += t.StoryPoints
			}
		}
		p.CompletionRate = completionRate(p.CompletedCards, p.TotalCards)
		patterns = append(patterns, p)
	}

	return patterns
}

// TicketTiming строит поэлементные времена выполнения тикетов и сводные
// показатели. Lead time считается в целых часах от создания до завершения,
// для незавершенных тикетов отсутствует.
func TicketTiming(tickets []dao.Ticket) dto.TicketTimingAnalytics {
	timings := utils.SliceToSlice(&tickets, func(t *dao.Ticket) dto.TicketTiming {
		timing := dto.TicketTiming{
			TicketId:    t.Id,
			CardId:      t.CardId,
			SprintWeek:  t.SprintWeek,
			Status:      t.Status,
			StoryPoints: t.StoryPoints,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
		}
		if t.CompletedAt != nil {
			hours := int(math.Round(t.CompletedAt.Sub(t.CreatedAt).Hours()))
			timing.LeadTimeHours = &hours
		}
		return timing
	})

	insights := dto.TimingInsights{TotalTickets: len(tickets)}
	leadSum := 0
	for _, timing := range timings {
		if timing.Status != types.TicketDone {
			continue
		}
		insights.CompletedTickets++
		lead := 0
		if timing.LeadTimeHours != nil {
			lead = *timing.LeadTimeHours
		}
		leadSum += lead
		if insights.FastestCompletionHours == nil || lead < *insights.FastestCompletionHours {
			v := lead
			insights.FastestCompletionHours = &v
		}
		if insights.SlowestCompletionHours == nil || lead > *insights.SlowestCompletionHours {
			v := lead
			insights.SlowestCompletionHours = &v
		}
	}
	if insights.CompletedTickets > 0 {
		insights.AverageLeadTimeHours = int(math.Round(float64(leadSum) / float64(insights.CompletedTickets)))
	}

	return dto.TicketTimingAnalytics{
		TicketTimings: timings,
		Insights:      insights,
	}
}
