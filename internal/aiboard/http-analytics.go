package aiboard

import (
	"net/http"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/analytics"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/utils"
	"github.com/labstack/echo/v4"
)

func (s *Services) AddAnalyticsServices(g *echo.Group) {
	g.GET("analytics/velocity/", s.getVelocityTrends)
	g.GET("analytics/weekly-patterns/", s.getWeeklyCompletionPatterns)

	sprintAnalyticsGroup := g.Group("analytics/sprints/:sprintId", s.SprintMiddleware)
	sprintAnalyticsGroup.GET("/", s.getSprintAnalytics)
	sprintAnalyticsGroup.GET("/timing/", s.getTicketTimingAnalytics)
}

// getSprintAnalytics godoc
// @id getSprintAnalytics
// @Summary Аналитика: аналитика спринта
// @Description Возвращает общие показатели спринта, понедельную разбивку и индикаторы здоровья.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Success 200 {object} dto.SprintAnalytics "Аналитика спринта"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/analytics/sprints/{sprintId}/ [get]
func (s *Services) getSprintAnalytics(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	tickets, err := dao.GetSprintTickets(s.db, sprint.Id)
	if err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, analytics.Sprint(tickets))
}

// getVelocityTrends godoc
// @id getVelocityTrends
// @Summary Аналитика: тренды скорости команды
// @Description Возвращает показатели скорости по всем спринтам, отсортированные по дате старта.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.SprintVelocity "Тренды скорости"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/analytics/velocity/ [get]
func (s *Services) getVelocityTrends(c echo.Context) error {
	var sprints []dao.Sprint
	if err := s.db.Find(&sprints).Error; err != nil {
		return EError(c, err)
	}

	var tickets []dao.Ticket
	if err := s.db.Find(&tickets).Error; err != nil {
		return EError(c, err)
	}

	bySprint := utils.GroupBy(tickets, func(t *dao.Ticket) string { return t.SprintId.String() })

	trends := analytics.VelocityTrends(sprints, func(sprint *dao.Sprint) []dao.Ticket {
		return bySprint[sprint.Id.String()]
	})

	return c.JSON(http.StatusOK, trends)
}

// getWeeklyCompletionPatterns godoc
// @id getWeeklyCompletionPatterns
// @Summary Аналитика: паттерны завершения по неделям
// @Description Группирует тикеты всех спринтов по номеру недели и показывает долю завершенных.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.WeekPattern "Паттерны по неделям"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/analytics/weekly-patterns/ [get]
func (s *Services) getWeeklyCompletionPatterns(c echo.Context) error {
	var tickets []dao.Ticket
	if err := s.db.Find(&tickets).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, analytics.WeeklyCompletionPatterns(tickets))
}

// getTicketTimingAnalytics godoc
// @id getTicketTimingAnalytics
// @Summary Аналитика: времена выполнения тикетов спринта
// @Description Возвращает lead time по каждому тикету спринта и сводные показатели.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Success 200 {object} dto.TicketTimingAnalytics "Времена выполнения"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/analytics/sprints/{sprintId}/timing/ [get]
func (s *Services) getTicketTimingAnalytics(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	tickets, err := dao.GetSprintTickets(s.db, sprint.Id)
	if err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, analytics.TicketTiming(tickets))
}
