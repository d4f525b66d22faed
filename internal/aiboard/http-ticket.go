package aiboard

import (
	"errors"
	"net/http"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/apierrors"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dto"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/utils"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketContext struct {
	AuthContext
	Ticket dao.Ticket
}

func (s *Services) TicketMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ticketId := c.Param("ticketId")

		val, err := uuid.FromString(ticketId)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrTicketNotFound)
		}

		var ticket dao.Ticket
		if err := s.db.
			Joins("Sprint").
			Joins("Assignee").
			Where("tickets.id = ?", val.String()).
			First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrTicketNotFound)
			}
			return EError(c, err)
		}

		return next(TicketContext{c.(AuthContext), ticket})
	}
}

func (s *Services) AddTicketServices(g *echo.Group) {
	g.GET("tickets/", s.getTicketList)
	g.POST("tickets/", s.createTicket)

	ticketGroup := g.Group("tickets/:ticketId", s.TicketMiddleware)

	ticketGroup.GET("/", s.getTicket)
	ticketGroup.PATCH("/", s.updateTicket)
	ticketGroup.DELETE("/", s.deleteTicket)
	ticketGroup.POST("/status/", s.updateTicketStatus)
	ticketGroup.POST("/assignee/", s.assignTicket)
	ticketGroup.POST("/sprint/", s.moveTicketToSprint)
	ticketGroup.POST("/board/", s.boardDropTicket)

	sprintTicketsGroup := g.Group("sprints/:sprintId/tickets", s.SprintMiddleware)
	sprintTicketsGroup.GET("/", s.getSprintTicketList)
}

// getTicketList godoc
// @id getTicketList
// @Summary Тикеты: получение списка тикетов
// @Description Возвращает список тикетов, опционально отфильтрованный по статусу и исполнителю.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Статус тикета (todo, inProgress, done)"
// @Param assignee query string false "Идентификатор исполнителя"
// @Success 200 {array} dto.TicketLight "Список тикетов"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/ [get]
func (s *Services) getTicketList(c echo.Context) error {
	query := s.db.Order("created_at ASC")

	if status := c.QueryParam("status"); status != "" {
		if !types.TicketStatus(status).Valid() {
			return EErrorDefined(c, apierrors.ErrTicketBadStatus)
		}
		query = query.Where("status = ?", status)
	}

	if assignee := c.QueryParam("assignee"); assignee != "" {
		val, err := uuid.FromString(assignee)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrTicketBadRequest)
		}
		query = query.Where("assignee_id = ?", val.String())
	}

	var tickets []dao.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return EError(c, err)
	}

	tickets = s.boardStore.Merge(tickets)

	return c.JSON(
		http.StatusOK,
		utils.SliceToSlice(&tickets, func(t *dao.Ticket) dto.TicketLight { return *t.ToLightDTO() }))
}

// getSprintTicketList godoc
// @id getSprintTicketList
// @Summary Тикеты: получение тикетов спринта
// @Description Возвращает тикеты спринта, опционально отфильтрованные по статусу (доска).
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Param status query string false "Статус тикета (todo, inProgress, done)"
// @Success 200 {array} dto.TicketLight "Список тикетов"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/{sprintId}/tickets/ [get]
func (s *Services) getSprintTicketList(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	query := s.db.Where("sprint_id = ?", sprint.Id).Order("sprint_week ASC, created_at ASC")

	if status := c.QueryParam("status"); status != "" {
		if !types.TicketStatus(status).Valid() {
			return EErrorDefined(c, apierrors.ErrTicketBadStatus)
		}
		query = query.Where("status = ?", status)
	}

	var tickets []dao.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return EError(c, err)
	}

	tickets = s.boardStore.Merge(tickets)

	return c.JSON(
		http.StatusOK,
		utils.SliceToSlice(&tickets, func(t *dao.Ticket) dto.TicketLight { return *t.ToLightDTO() }))
}

// createTicket godoc
// @id createTicket
// @Summary Тикеты: создание тикета
// @Description Создает новый тикет. Тикет со статусом done сразу получает момент завершения.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body requestTicket true "Информация о тикете"
// @Success 201 {object} dto.Ticket "Созданный тикет"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/ [post]
func (s *Services) createTicket(c echo.Context) error {
	var req requestTicket

	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrTicketBadRequest)
	}

	if req.Title == nil || *req.Title == "" {
		return EErrorDefined(c, apierrors.ErrTicketTitleRequired)
	}

	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrTicketRequestValidate)
	}

	ticket := dao.Ticket{
		Id:         dao.GenUUID(),
		Title:      *req.Title,
		Status:     types.TicketTodo,
		SprintWeek: 1,
	}

	if req.CardId != nil {
		ticket.CardId = *req.CardId
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return EErrorDefined(c, apierrors.ErrTicketBadStatus)
		}
		ticket.ApplyStatus(*req.Status)
	}
	if req.StoryPoints != nil {
		ticket.StoryPoints = *req.StoryPoints
	}
	if req.EstimatedDays != nil {
		ticket.EstimatedDays = *req.EstimatedDays
	}
	if req.SprintWeek != nil {
		ticket.SprintWeek = *req.SprintWeek
	}
	if req.SprintId != nil {
		ticket.SprintId = *req.SprintId
	}
	if req.AssigneeId != nil {
		ticket.AssigneeId = *req.AssigneeId
	}

	if err := s.db.Create(&ticket).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusCreated, ticket.ToDTO())
}

// getTicket godoc
// @id getTicket
// @Summary Тикеты: получение информации о тикете
// @Description Получение тикета с данными спринта и исполнителя.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Success 200 {object} dto.Ticket "Тикет"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/ [get]
func (s *Services) getTicket(c echo.Context) error {
	ticket := c.(TicketContext).Ticket
	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// updateTicket godoc
// @id updateTicket
// @Summary Тикеты: обновление тикета
// @Description Частичное обновление тикета: меняются только переданные поля. Переход статуса в done фиксирует момент завершения, выход из done снимает его.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Param request body requestTicket true "Информация о тикете"
// @Success 200 {object} dto.Ticket "Тикет"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/ [patch]
func (s *Services) updateTicket(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	var req requestTicket
	fields, err := BindData(c, &req)
	if err != nil {
		return EError(c, err)
	}

	for _, field := range fields {
		switch field {
		case "card_id":
			ticket.CardId = *req.CardId
		case "title":
			if *req.Title == "" {
				return EErrorDefined(c, apierrors.ErrTicketTitleRequired)
			}
			ticket.Title = *req.Title
		case "status":
			if !req.Status.Valid() {
				return EErrorDefined(c, apierrors.ErrTicketBadStatus)
			}
			ticket.ApplyStatus(*req.Status)
		case "story_points":
			ticket.StoryPoints = *req.StoryPoints
		case "estimated_days":
			ticket.EstimatedDays = *req.EstimatedDays
		case "sprint_week":
			ticket.SprintWeek = *req.SprintWeek
		case "sprint_id":
			ticket.SprintId = *req.SprintId
		case "assignee_id":
			ticket.AssigneeId = *req.AssigneeId
		}
	}

	if len(fields) > 0 {
		fields = append(fields, "completed_at")
		if err := s.db.Omit(clause.Associations).Select(fields).Updates(&ticket).Error; err != nil {
			return EError(c, err)
		}
	}

	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// updateTicketStatus godoc
// @id updateTicketStatus
// @Summary Тикеты: смена статуса тикета
// @Description Переводит тикет в указанный статус одним запросом. Повторный перевод в done не меняет момент завершения.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Param request body requestTicketStatus true "Новый статус"
// @Success 200 {object} dto.Ticket "Тикет"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/status/ [post]
func (s *Services) updateTicketStatus(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	var req requestTicketStatus
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrTicketBadRequest)
	}

	if !req.Status.Valid() {
		return EErrorDefined(c, apierrors.ErrTicketBadStatus)
	}

	ticket.ApplyStatus(req.Status)

	if err := s.db.Omit(clause.Associations).
		Select("status", "completed_at").
		Updates(&ticket).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// assignTicket godoc
// @id assignTicket
// @Summary Тикеты: назначение исполнителя
// @Description Назначает тикет на пользователя.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Param request body requestTicketAssignee true "Идентификатор исполнителя"
// @Success 200 {object} dto.Ticket "Тикет"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/assignee/ [post]
func (s *Services) assignTicket(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	var req requestTicketAssignee
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrTicketBadRequest)
	}

	if _, err := dao.GetUser(s.db, req.AssigneeId.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrUserNotFound)
		}
		return EError(c, err)
	}

	ticket.AssigneeId = req.AssigneeId
	ticket.Assignee = nil

	if err := s.db.Omit(clause.Associations).
		Select("assignee_id").
		Updates(&ticket).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// moveTicketToSprint godoc
// @id moveTicketToSprint
// @Summary Тикеты: перенос тикета в другой спринт
// @Description Переносит тикет в указанный спринт.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Param request body requestTicketSprint true "Идентификатор спринта"
// @Success 200 {object} dto.Ticket "Тикет"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/sprint/ [post]
func (s *Services) moveTicketToSprint(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	var req requestTicketSprint
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrTicketBadRequest)
	}

	if _, err := dao.GetSprint(s.db, req.SprintId.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrSprintNotFound)
		}
		return EError(c, err)
	}

	ticket.SprintId = req.SprintId
	ticket.Sprint = nil

	if err := s.db.Omit(clause.Associations).
		Select("sprint_id").
		Updates(&ticket).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// boardDropTicket godoc
// @id boardDropTicket
// @Summary Тикеты: перемещение карточки по доске
// @Description Обрабатывает бросок карточки в колонку статуса и строку недели. Если позиция не изменилась, запрос ничего не делает.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Param request body requestBoardDrop true "Целевая позиция карточки"
// @Success 200 {object} dto.Ticket "Тикет"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/board/ [post]
func (s *Services) boardDropTicket(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	var req requestBoardDrop
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrTicketBadRequest)
	}

	if !req.Status.Valid() {
		return EErrorDefined(c, apierrors.ErrTicketBadStatus)
	}
	if req.Week < 1 {
		return EErrorDefined(c, apierrors.ErrTicketBadRequest)
	}

	if err := s.boardStore.Drop(s.db, &ticket, req.Status, req.Week); err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// deleteTicket godoc
// @id deleteTicket
// @Summary Тикеты: удаление тикета
// @Description Удаляет тикет.
// @Tags Ticket
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ticketId path string true "Идентификатор тикета"
// @Success 204 "Тикет удален"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Тикет не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/tickets/{ticketId}/ [delete]
func (s *Services) deleteTicket(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	if err := s.db.Omit(clause.Associations).Delete(&ticket).Error; err != nil {
		return EError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type requestTicket struct {
	CardId        *string             `json:"card_id,omitempty" validate:"omitempty,cardId" extensions:"x-nullable"`
	Title         *string             `json:"title,omitempty" validate:"omitempty,boardName" extensions:"x-nullable"`
	Status        *types.TicketStatus `json:"status,omitempty" extensions:"x-nullable"`
	StoryPoints   *int                `json:"story_points,omitempty" validate:"omitempty,min=0" extensions:"x-nullable"`
	EstimatedDays *float64            `json:"estimated_days,omitempty" validate:"omitempty,min=0" extensions:"x-nullable"`
	SprintWeek    *int                `json:"sprint_week,omitempty" validate:"omitempty,min=1" extensions:"x-nullable"`
	SprintId      *uuid.UUID          `json:"sprint_id,omitempty" extensions:"x-nullable"`
	AssigneeId    *uuid.UUID          `json:"assignee_id,omitempty" extensions:"x-nullable"`
}

type requestTicketStatus struct {
	Status types.TicketStatus `json:"status"`
}

type requestTicketAssignee struct {
	AssigneeId uuid.UUID `json:"assignee_id"`
}

type requestTicketSprint struct {
	SprintId uuid.UUID `json:"sprint_id"`
}

type requestBoardDrop struct {
	Status types.TicketStatus `json:"status"`
	Week   int                `json:"week"`
}
