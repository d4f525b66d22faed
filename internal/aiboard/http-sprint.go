package aiboard

import (
	"errors"
	"net/http"
	"time"

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

type SprintContext struct {
	AuthContext
	Sprint dao.Sprint
}

func (s *Services) SprintMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sprintId := c.Param("sprintId")

		val, err := uuid.FromString(sprintId)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrSprintNotFound)
		}

		var sprint dao.Sprint
		if err := s.db.Where("id = ?", val.String()).First(&sprint).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrSprintNotFound)
			}
			return EError(c, err)
		}

		return next(SprintContext{c.(AuthContext), sprint})
	}
}

func (s *Services) AddSprintServices(g *echo.Group) {
	g.GET("sprints/", s.getSprintList)
	g.POST("sprints/", s.createSprint)
	g.GET("sprints/active/", s.getActiveSprint)

	sprintGroup := g.Group("sprints/:sprintId", s.SprintMiddleware)

	sprintGroup.GET("/", s.getSprint)
	sprintGroup.PATCH("/", s.updateSprint)
	sprintGroup.DELETE("/", s.deleteSprint)
	sprintGroup.GET("/summary/", s.getSprintSummary)
}

// getSprintList godoc
// @id getSprintList
// @Summary Спринты: получение списка спринтов
// @Description Возвращает список всех спринтов, опционально отфильтрованный по статусу.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Статус спринта (active, done, upcoming)"
// @Success 200 {array} dto.SprintLight "Список спринтов"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/ [get]
func (s *Services) getSprintList(c echo.Context) error {
	query := s.db.Order("start_date ASC")

	if status := c.QueryParam("status"); status != "" {
		if !types.SprintStatus(status).Valid() {
			return EErrorDefined(c, apierrors.ErrSprintBadStatus)
		}
		query = query.Where("status = ?", status)
	}

	var sprints []dao.Sprint
	if err := query.Find(&sprints).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		utils.SliceToSlice(&sprints, func(s *dao.Sprint) dto.SprintLight { return *s.ToLightDTO() }))
}

// createSprint godoc
// @id createSprint
// @Summary Спринты: создание спринта
// @Description Создает новый спринт.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body requestSprint true "Информация о спринте"
// @Success 201 {object} dto.Sprint "Созданный спринт"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/ [post]
func (s *Services) createSprint(c echo.Context) error {
	var req requestSprint

	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrSprintBadRequest)
	}

	if req.Name == nil || *req.Name == "" {
		return EErrorDefined(c, apierrors.ErrSprintNameRequired)
	}

	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrSprintRequestValidate)
	}

	sprint := dao.Sprint{
		Id:          dao.GenUUID(),
		Name:        *req.Name,
		Status:      types.SprintUpcoming,
		SprintWeeks: 1,
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return EErrorDefined(c, apierrors.ErrSprintBadStatus)
		}
		sprint.Status = *req.Status
	}
	if req.StartDate != nil {
		sprint.StartDate = time.UnixMilli(*req.StartDate)
	}
	if req.EndDate != nil {
		sprint.EndDate = time.UnixMilli(*req.EndDate)
	}
	if req.SprintWeeks != nil {
		sprint.SprintWeeks = *req.SprintWeeks
	}

	if !sprint.EndDate.After(sprint.StartDate) {
		return EErrorDefined(c, apierrors.ErrSprintBadDateRange)
	}

	if err := s.db.Create(&sprint).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusCreated, sprint.ToDTO())
}

// getSprint godoc
// @id getSprint
// @Summary Спринты: получение информации о спринте
// @Description Получение информации о спринте со сводкой по его тикетам.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Success 200 {object} dto.Sprint "Спринт"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/{sprintId}/ [get]
func (s *Services) getSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	summary, err := dao.GetSprintSummary(s.db, sprint.Id)
	if err != nil {
		return EError(c, err)
	}
	sprint.Stats = &summary

	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// updateSprint godoc
// @id updateSprint
// @Summary Спринты: обновление информации о спринте
// @Description Частичное обновление спринта: меняются только переданные поля.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Param request body requestSprint true "Информация о спринте"
// @Success 200 {object} dto.Sprint "Спринт"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/{sprintId}/ [patch]
func (s *Services) updateSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	var req requestSprint
	fields, err := BindData(c, &req)
	if err != nil {
		return EError(c, err)
	}

	for _, field := range fields {
		switch field {
		case "name":
			if *req.Name == "" {
				return EErrorDefined(c, apierrors.ErrSprintNameRequired)
			}
			sprint.Name = *req.Name
		case "status":
			if !req.Status.Valid() {
				return EErrorDefined(c, apierrors.ErrSprintBadStatus)
			}
			sprint.Status = *req.Status
		case "start_date":
			sprint.StartDate = time.UnixMilli(*req.StartDate)
		case "end_date":
			sprint.EndDate = time.UnixMilli(*req.EndDate)
		case "sprint_weeks":
			sprint.SprintWeeks = *req.SprintWeeks
		}
	}

	if !sprint.EndDate.After(sprint.StartDate) {
		return EErrorDefined(c, apierrors.ErrSprintBadDateRange)
	}

	if len(fields) > 0 {
		if err := s.db.Omit(clause.Associations).Select(fields).Updates(&sprint).Error; err != nil {
			return EError(c, err)
		}
	}

	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// deleteSprint godoc
// @id deleteSprint
// @Summary Спринты: удаление спринта
// @Description Удаляет спринт. Тикеты спринта не удаляются и сохраняют ссылку на него.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Success 204 "Спринт удален"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/{sprintId}/ [delete]
func (s *Services) deleteSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	if err := s.db.Delete(&sprint).Error; err != nil {
		return EError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// getActiveSprint godoc
// @id getActiveSprint
// @Summary Спринты: получение активного спринта
// @Description Возвращает активный спринт. При нескольких активных выбирается спринт с наиболее ранней датой старта. Отсутствие активного спринта - не null в теле ответа, а 404 с кодом ошибки.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.Sprint "Активный спринт"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Активный спринт отсутствует"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/active/ [get]
func (s *Services) getActiveSprint(c echo.Context) error {
	sprint, err := dao.GetActiveSprint(s.db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrNoActiveSprint)
		}
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// getSprintSummary godoc
// @id getSprintSummary
// @Summary Спринты: сводка по тикетам спринта
// @Description Возвращает количество тикетов по статусам, суммы story points и оценок, процент завершения.
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sprintId path string true "Идентификатор спринта"
// @Success 200 {object} dto.SprintSummary "Сводка спринта"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/sprints/{sprintId}/summary/ [get]
func (s *Services) getSprintSummary(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	summary, err := dao.GetSprintSummary(s.db, sprint.Id)
	if err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

type requestSprint struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,boardName" extensions:"x-nullable"`
	Status      *types.SprintStatus `json:"status,omitempty" extensions:"x-nullable"`
	StartDate   *int64              `json:"start_date,omitempty" extensions:"x-nullable"`
	EndDate     *int64              `json:"end_date,omitempty" extensions:"x-nullable"`
	SprintWeeks *int                `json:"sprint_weeks,omitempty" validate:"omitempty,min=1" extensions:"x-nullable"`
}
