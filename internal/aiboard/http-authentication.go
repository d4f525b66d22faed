// Пакет для аутентификации и авторизации пользователей в приложении AIBoard.
// Обеспечивает безопасный доступ к ресурсам, используя JWT и куки.
//
// Основные возможности:
//   - Аутентификация пользователей по email и паролю.
//   - Генерация и проверка токенов доступа (JWT) с поддержкой обновления.
//   - Защита от гонки параллельных обновлений токена через кеш токенов.
//   - Поддержка различных схем аутентификации (Bearer, Cookies).
package aiboard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/apierrors"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	tokenscache "github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/tokens-cache"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Authentication struct {
	db          *gorm.DB
	secret      []byte
	tokensCache *tokenscache.TokensCache
}

type AuthContext struct {
	echo.Context
	User         *dao.User
	AccessToken  *Token
	RefreshToken *Token
}

type AuthConfig struct {
	Secret      []byte
	DB          *gorm.DB
	TokensCache *tokenscache.TokensCache
	Skipper     middleware.Skipper
}

func AuthMiddleware(config AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == "OPTIONS" {
				return c.NoContent(http.StatusOK)
			}

			if config.Skipper != nil && config.Skipper(c) {
				return next(c)
			}

			var refreshToken *Token
			var accessToken *Token

			schema, tokenString, ok := strings.Cut(c.Request().Header.Get("Authorization"), " ")
			if !ok {
				// Cookie token
				schema = "Cookies"
				if accessCookie, err := c.Cookie("access_token"); err == nil && accessCookie != nil {
					accessToken = new(Token)
					accessToken.SignedString = accessCookie.Value
					accessToken.Type = "access"
				}

				if refreshCookie, err := c.Cookie("refresh_token"); err == nil && refreshCookie != nil {
					refreshToken = new(Token)
					refreshToken.SignedString = refreshCookie.Value
					refreshToken.Type = "refresh"
				}

				if refreshToken == nil && accessToken == nil {
					return EErrorDefined(c, apierrors.ErrNotAuthenticated)
				}
			}
			schema = strings.TrimSpace(schema)

			if schema != "Cookies" {
				accessToken = new(Token)
				accessToken.SignedString = strings.TrimSpace(tokenString)
				accessToken.Type = schema
			}

			keyFunc := func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return config.Secret, nil
			}

			var accessError error
			if accessToken != nil {
				accessToken.JWT, accessError = jwt.Parse(accessToken.SignedString, keyFunc)
			}

			if refreshToken != nil {
				if refreshToken.JWT, _ = jwt.Parse(refreshToken.SignedString, keyFunc); refreshToken.JWT == nil {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
			}

			var user *dao.User

			// Prolong if expired
			if errors.Is(accessError, jwt.ErrTokenExpired) || accessToken == nil {
				var err error
				accessToken, user, err = config.tokenProlong(c, refreshToken)
				if accessToken == nil || user == nil {
					return err
				}
			} else if accessError != nil {
				if accessToken.JWT != nil && !accessToken.JWT.Valid {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
				return EError(c, accessError)
			} else {
				claims, ok := accessToken.JWT.Claims.(jwt.MapClaims)
				if !ok || !accessToken.JWT.Valid {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}

				userId, _ := claims["user_id"].(string)
				user = new(dao.User)

				// Fetch user
				if err := config.DB.Where("id = ?", userId).First(user).Error; err != nil {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
			}

			if user == nil {
				return EError(c, errors.New("nil user"))
			}

			// If user blocked
			if !user.IsActive {
				clearAuthCookies(c)
				return EErrorDefined(c, apierrors.ErrNotAuthenticated)
			}

			if err := dao.UpdateUserLastActivityTime(config.DB, user); err != nil {
				EError(c, err)
			}

			return next(AuthContext{c, user, accessToken, refreshToken})
		}
	}
}

func (a *AuthConfig) tokenProlong(c echo.Context, token *Token) (*Token, *dao.User, error) {
	if token == nil {
		return nil, nil, EErrorDefined(c, apierrors.ErrRefreshTokenRequired)
	}

	// Параллельное обновление по тому же refresh токену отдает пару из кеша
	if cached := a.TokensCache.GetTokens(token.SignedString); cached != nil {
		accessToken := &Token{SignedString: cached.AccessToken, Type: "access"}
		refreshToken := &Token{SignedString: cached.RefreshToken, Type: "refresh"}
		setAuthCookies(c, accessToken, refreshToken)
		return accessToken, cached.User, nil
	}

	claims, ok := token.JWT.Claims.(jwt.MapClaims)
	if !ok || !token.JWT.Valid {
		return nil, nil, EErrorDefined(c, apierrors.ErrTokenInvalid)
	}

	userId, _ := claims["user_id"].(string)

	var user dao.User
	if err := a.DB.Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, nil, EErrorDefined(c, apierrors.ErrTokenInvalid)
	}

	accessToken, refreshToken, err := createAccessToken(user.ID)
	if err != nil {
		return nil, nil, EError(c, err)
	}

	a.TokensCache.StoreTokens(token.SignedString, accessToken.SignedString, refreshToken.SignedString, &user)

	setAuthCookies(c, accessToken, refreshToken)

	return accessToken, &user, nil
}

func AddAuthenticationServices(db *gorm.DB, e *echo.Echo, secret []byte, tokensCache *tokenscache.TokensCache) *Authentication {
	ret := &Authentication{db, secret, tokensCache}

	e.POST("api/sign-in/", ret.emailLogin)
	e.POST("api/sign-out/", ret.logout)
	return ret
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// emailLogin godoc
// @id emailLogin
// @Summary Пользователи (управление доступом): вход пользователя
// @Description Аутентифицирует пользователя с использованием email и пароля
// @Tags Users
// @Accept json
// @Produce json
// @Param data body LoginRequest true "Данные для входа пользователя"
// @Success 200 {object} map[string]interface{} "Токены доступа и информация о пользователе"
// @Failure 400 {object} apierrors.DefinedError "Некорректные данные запроса"
// @Failure 401 {object} apierrors.DefinedError "Неудачный вход в систему"
// @Failure 500 {object} apierrors.DefinedError "Внутренняя ошибка сервера"
// @Router /api/sign-in [post]
func (a *Authentication) emailLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}

	req.Email = strings.ToLower(req.Email)

	if req.Email == "" || req.Password == "" {
		return EErrorDefined(c, apierrors.ErrLoginCredentialsRequired)
	}

	if !ValidateEmail(req.Email) {
		return EErrorDefined(c, apierrors.ErrUserEmailInvalid)
	}

	var user dao.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return EErrorDefined(c, apierrors.ErrFailedLogin)
		}
		return EError(c, err)
	}

	if !user.IsActive {
		return EErrorDefined(c, apierrors.ErrFailedLogin)
	}

	if !checkPassword(req.Password, user.Password) {
		return EErrorDefined(c, apierrors.ErrFailedLogin)
	}

	tm := time.Now()

	user.LastActive = &tm
	user.LastLoginTime = &tm

	user.LastLoginIp = c.RealIP()
	user.LastLoginUagent = c.Request().UserAgent()
	user.TokenUpdatedAt = &tm
	if err := a.db.Model(&user).Select("LastActive", "LastLoginTime", "LastLoginIp", "LastLoginUagent", "TokenUpdatedAt").Updates(&user).Error; err != nil {
		return EError(c, err)
	}

	accessToken, refreshToken, err := createAccessToken(user.ID)
	if err != nil {
		return EError(c, err)
	}

	setAuthCookies(c, accessToken, refreshToken)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token":  accessToken.SignedString,
		"refresh_token": refreshToken.SignedString,
		"user":          user.ToDTO(),
	})
}

// logout godoc
// @id logout
// @Summary Пользователи (управление доступом): выход пользователя
// @Description Завершает сессию пользователя и очищает куки
// @Tags Users
// @Success 204 "Сессия завершена"
// @Router /api/sign-out [post]
func (a *Authentication) logout(c echo.Context) error {
	if accessCookie, err := c.Cookie("access_token"); err == nil && accessCookie != nil {
		if userId, err := getUserIdFromJWT(accessCookie.Value); err == nil {
			tm := time.Now()
			if err := a.db.Model(&dao.User{ID: uuid.FromStringOrNil(userId)}).
				Select("LastLogoutTime", "LastLogoutIp").
				Updates(&dao.User{LastLogoutTime: &tm, LastLogoutIp: c.RealIP()}).Error; err != nil {
				EError(c, err)
			}
		}
	}

	clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}
