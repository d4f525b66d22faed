package aiboard

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/apierrors"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServices(t *testing.T) *Services {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dao.User{}, &dao.Sprint{}, &dao.Ticket{}))
	return &Services{db: db}
}

func newTeamMemberRequest(actor *dao.User, body string) (AuthContext, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return AuthContext{Context: c, User: actor}, rec
}

func TestCreateTeamMemberDuplicateEmail(t *testing.T) {
	s := newTestServices(t)
	actor := dao.User{ID: dao.GenUUID(), Email: "pm@example.org", Role: types.RolePM}

	ctx, rec := newTeamMemberRequest(&actor,
		`{"email": "sidorov@example.org", "first_name": "Petr", "last_name": "Sidorov"}`)
	require.NoError(t, s.createTeamMember(ctx))
	assert.Equal(t, 201, rec.Code)

	// Повторное создание с тем же email
	ctx, rec = newTeamMemberRequest(&actor,
		`{"email": "sidorov@example.org", "first_name": "Petr", "last_name": "Sidorov"}`)
	require.NoError(t, s.createTeamMember(ctx))
	assert.Equal(t, apierrors.ErrUserAlreadyExist.StatusCode, rec.Code)

	var resp apierrors.DefinedError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrUserAlreadyExist.Code, resp.Code)

	// Конфликт не оставляет частичной записи
	var count int64
	require.NoError(t, s.db.Model(&dao.User{}).Where("email = ?", "sidorov@example.org").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateTeamMemberValidationBeforeWrite(t *testing.T) {
	s := newTestServices(t)
	actor := dao.User{ID: dao.GenUUID(), Email: "pm@example.org", Role: types.RolePM}

	ctx, rec := newTeamMemberRequest(&actor, `{"email": "not-an-email"}`)
	require.NoError(t, s.createTeamMember(ctx))
	assert.Equal(t, apierrors.ErrUserEmailInvalid.StatusCode, rec.Code)

	ctx, rec = newTeamMemberRequest(&actor,
		`{"email": "short@example.org", "password": "1234"}`)
	require.NoError(t, s.createTeamMember(ctx))
	assert.Equal(t, apierrors.ErrPasswordTooShort.StatusCode, rec.Code)

	// Ни одна из отклоненных попыток не записала пользователя
	var count int64
	require.NoError(t, s.db.Model(&dao.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateTeamMemberRequiresPM(t *testing.T) {
	s := newTestServices(t)
	actor := dao.User{ID: dao.GenUUID(), Email: "user@example.org", Role: types.RoleUser}

	ctx, rec := newTeamMemberRequest(&actor, `{"email": "new@example.org"}`)
	require.NoError(t, s.createTeamMember(ctx))
	assert.Equal(t, apierrors.ErrNotEnoughRights.StatusCode, rec.Code)
}
