package aiboard

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword(t *testing.T) {
	hash := dao.GenPasswordHash("password123")
	assert.True(t, checkPassword("password123", hash))
	assert.False(t, checkPassword("password124", hash))
	assert.False(t, checkPassword("password123", "plaintext"))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ivanov@example.org"))
	assert.False(t, ValidateEmail("ivanov"))
	assert.False(t, ValidateEmail(""))
}

func TestGenJwtToken(t *testing.T) {
	userId := dao.GenUUID()
	token, err := GenJwtToken([]byte("test secret"), "access", userId.String())
	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	assert.NotEmpty(t, token.JWT.Signature)

	id, err := getUserIdFromJWT(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, userId.String(), id)
}

func TestGetUserIdFromJWTMalformed(t *testing.T) {
	_, err := getUserIdFromJWT("not a token")
	assert.Error(t, err)
}

func TestBindData(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(`{"name": "Sprint 5", "sprint_weeks": 0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var body struct {
		Name        *string `json:"name"`
		Status      *string `json:"status"`
		SprintWeeks *int    `json:"sprint_weeks"`
	}
	fields, err := BindData(c, &body)
	require.NoError(t, err)

	// Переданный ноль отличается от отсутствующего поля
	assert.ElementsMatch(t, []string{"name", "sprint_weeks"}, fields)
	require.NotNil(t, body.Name)
	assert.Equal(t, "Sprint 5", *body.Name)
	require.NotNil(t, body.SprintWeeks)
	assert.Equal(t, 0, *body.SprintWeeks)
	assert.Nil(t, body.Status)
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	type sprintBody struct {
		Name *string `json:"name" validate:"omitempty,boardName"`
	}

	good := "Спринт 5 (release)"
	assert.NoError(t, v.Validate(&sprintBody{Name: &good}))

	long := strings.Repeat("a", 201)
	assert.Error(t, v.Validate(&sprintBody{Name: &long}))
}
