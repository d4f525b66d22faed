package aiboard

import (
	"errors"
	"net/http"
	"strings"

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

type UserContext struct {
	AuthContext
	RequestedUser dao.User
}

func (s *Services) UserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userId := c.Param("userId")

		val, err := uuid.FromString(userId)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrUserNotFound)
		}

		var user dao.User
		if err := s.db.Where("id = ?", val.String()).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrUserNotFound)
			}
			return EError(c, err)
		}

		return next(UserContext{c.(AuthContext), user})
	}
}

func (s *Services) AddUserServices(g *echo.Group) {
	g.GET("users/", s.getUserList)
	g.POST("users/", s.createTeamMember)
	g.GET("users/me/", s.getCurrentUser)
	g.POST("users/me/role/", s.initializeUserRole)

	userGroup := g.Group("users/:userId", s.UserMiddleware)

	userGroup.GET("/", s.getUserById)
	userGroup.POST("/role/", s.updateUserRole)
}

// getCurrentUser godoc
// @id getCurrentUser
// @Summary Пользователи: текущий пользователь
// @Description Возвращает профиль текущего пользователя с ролью.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.User "Пользователь"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Router /api/auth/users/me/ [get]
func (s *Services) getCurrentUser(c echo.Context) error {
	user := c.(AuthContext).User
	return c.JSON(http.StatusOK, user.ToDTO())
}

// getUserList godoc
// @id getUserList
// @Summary Пользователи: получение списка пользователей
// @Description Возвращает список пользователей, опционально отфильтрованный по роли.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "Роль пользователя (User, PM)"
// @Param offset query int false "Смещение для пагинации" default(-1)
// @Param limit query int false "Лимит записей" default(100)
// @Success 200 {object} dao.PaginationResponse{result=[]dto.UserLight} "Список пользователей"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/users/ [get]
func (s *Services) getUserList(c echo.Context) error {
	offset := -1
	limit := 100
	if err := echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit).BindError(); err != nil {
		return EError(c, err)
	}

	query := s.db.Order("email ASC")

	if role := c.QueryParam("role"); role != "" {
		if !types.UserRole(role).Valid() {
			return EErrorDefined(c, apierrors.ErrUserBadRole)
		}
		query = query.Where("role = ?", role)
	}

	var users []dao.User
	resp, err := dao.PaginationRequest(offset, limit, query, &users)
	if err != nil {
		return EError(c, err)
	}

	resp.Result = utils.SliceToSlice(&users, func(u *dao.User) dto.UserLight { return *u.ToLightDTO() })

	return c.JSON(http.StatusOK, resp)
}

// getUserById godoc
// @id getUserById
// @Summary Пользователи: получение пользователя
// @Description Возвращает пользователя по идентификатору.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "Идентификатор пользователя"
// @Success 200 {object} dto.User "Пользователь"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 404 {object} apierrors.DefinedError "Пользователь не найден"
// @Router /api/auth/users/{userId}/ [get]
func (s *Services) getUserById(c echo.Context) error {
	user := c.(UserContext).RequestedUser
	return c.JSON(http.StatusOK, user.ToDTO())
}

// updateUserRole godoc
// @id updateUserRole
// @Summary Пользователи: смена роли пользователя
// @Description Назначает пользователю роль User или PM. Доступно только PM.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "Идентификатор пользователя"
// @Param request body requestUserRole true "Новая роль"
// @Success 200 {object} dto.User "Пользователь"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 403 {object} apierrors.DefinedError "Недостаточно прав"
// @Failure 404 {object} apierrors.DefinedError "Пользователь не найден"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/users/{userId}/role/ [post]
func (s *Services) updateUserRole(c echo.Context) error {
	actor := c.(UserContext).User
	user := c.(UserContext).RequestedUser

	if actor.Role != types.RolePM && !actor.IsSuperuser {
		return EErrorDefined(c, apierrors.ErrNotEnoughRights)
	}

	var req requestUserRole
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrUserBadRequest)
	}

	if !req.Role.Valid() {
		return EErrorDefined(c, apierrors.ErrUserBadRole)
	}

	user.Role = req.Role
	if err := s.db.Omit(clause.Associations).Select("role").Updates(&user).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, user.ToDTO())
}

// initializeUserRole godoc
// @id initializeUserRole
// @Summary Пользователи: инициализация роли текущего пользователя
// @Description Назначает текущему пользователю роль после регистрации. Без указания роли назначается User.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body requestInitRole true "Роль"
// @Success 200 {object} dto.User "Пользователь"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/users/me/role/ [post]
func (s *Services) initializeUserRole(c echo.Context) error {
	user := c.(AuthContext).User

	var req requestInitRole
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrUserBadRequest)
	}

	role := types.DefaultRole
	if req.Role != nil {
		if !req.Role.Valid() {
			return EErrorDefined(c, apierrors.ErrUserBadRole)
		}
		role = *req.Role
	}

	user.Role = role
	if err := s.db.Omit(clause.Associations).Select("role").Updates(user).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusOK, user.ToDTO())
}

// createTeamMember godoc
// @id createTeamMember
// @Summary Пользователи: создание участника команды
// @Description Создает пользователя с учетной записью. Без пароля в запросе пароль генерируется. Доступно только PM.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body requestTeamMember true "Данные участника"
// @Success 201 {object} dto.CreatedUser "Созданный участник"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 403 {object} apierrors.DefinedError "Недостаточно прав"
// @Failure 409 {object} apierrors.DefinedError "Пользователь уже существует"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/users/ [post]
func (s *Services) createTeamMember(c echo.Context) error {
	actor := c.(AuthContext).User

	if actor.Role != types.RolePM && !actor.IsSuperuser {
		return EErrorDefined(c, apierrors.ErrNotEnoughRights)
	}

	var req requestTeamMember
	if err := c.Bind(&req); err != nil {
		return EError(c, apierrors.ErrUserBadRequest)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Вся валидация до какой-либо записи в базу
	if !ValidateEmail(req.Email) {
		return EErrorDefined(c, apierrors.ErrUserEmailInvalid)
	}

	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrUserBadRequest)
	}

	role := types.DefaultRole
	if req.Role != nil {
		if !req.Role.Valid() {
			return EErrorDefined(c, apierrors.ErrUserBadRole)
		}
		role = *req.Role
	}

	password := req.Password
	if password == "" {
		password = dao.GenPassword()
	}
	if len(password) < types.MinPasswordLength {
		return EErrorDefined(c, apierrors.ErrPasswordTooShort)
	}

	if _, err := dao.GetUserByEmail(s.db, req.Email); err == nil {
		return EErrorDefined(c, apierrors.ErrUserAlreadyExist)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EError(c, err)
	}

	user := dao.User{
		ID:        dao.GenUUID(),
		Email:     req.Email,
		Password:  dao.GenPasswordHash(password),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return EError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CreatedUser{
		UserId:  user.ID,
		Message: "Team member created",
	})
}

type requestUserRole struct {
	Role types.UserRole `json:"role"`
}

type requestInitRole struct {
	Role *types.UserRole `json:"role,omitempty" extensions:"x-nullable"`
}

type requestTeamMember struct {
	Email     string          `json:"email"`
	FirstName string          `json:"first_name" validate:"omitempty,fullName"`
	LastName  string          `json:"last_name" validate:"omitempty,fullName"`
	Phone     *string         `json:"phone,omitempty" extensions:"x-nullable"`
	Role      *types.UserRole `json:"role,omitempty" extensions:"x-nullable"`
	Password  string          `json:"password,omitempty"`
}
