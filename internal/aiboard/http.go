// Пакет aiboard предоставляет основные компоненты бекенда доски планирования
// спринтов. Он включает в себя функциональность для работы со спринтами,
// тикетами, пользователями и аналитикой команды, а также HTTP API для
// фронтенда доски.
//
// Основные возможности:
//   - Управление спринтами и тикетами.
//   - Оптимистичные перемещения карточек по доске.
//   - Аналитика завершения спринтов и скорости команды.
//   - Аутентификация пользователей и управление ролями.
package aiboard

// @title AIBoard API
// @version 1.0
// @description Sprint planning board backend.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @BasePath /
// @query.collection.format multi
import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/board"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/config"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	tokenscache "github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/tokens-cache"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

type Services struct {
	db          *gorm.DB
	boardStore  *board.OverrideStore
	tokensCache *tokenscache.TokensCache
}

var cfg *config.Config
var appVersion string

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "AIBoard")
		return next(c)
	}
}

func Server(db *gorm.DB, c *config.Config, version string) {
	cfg = c
	appVersion = version

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		EErrorMsgStatus(c, nil, code)
	}

	// Query counter
	ql := dao.NewQueryLogger()
	if err := db.Callback().
		Query().
		After("*").
		Register("instrumentation:after_query", ql.QueryCallback); err != nil {
		slog.Error("Register query callback", "err", err)
	}

	tc := tokenscache.NewTokensCache()

	s := &Services{
		db:          db,
		boardStore:  board.NewOverrideStore(),
		tokensCache: tc,
	}

	// Create a channel to handle termination signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down gracefully, press Ctrl+C again to force")
		os.Exit(0)
	}()

	// Global middlewares
	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("5M"))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     9,
		MinLength: 2048,
	}))
	if !cfg.MetricsDisabled {
		e.Use(echoprometheus.NewMiddleware("aiboard"))
	}
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	AddAuthenticationServices(db, e, []byte(cfg.SecretKey), tc)

	//services with auth
	apiGroup := e.Group("/api/")

	authGroup := apiGroup.Group("auth/",
		AuthMiddleware(AuthConfig{
			Secret:      []byte(cfg.SecretKey),
			DB:          db,
			TokensCache: tc,
		}),
	)

	authGroup.GET("queryLog/", ql.CountEndpoint)
	s.AddSprintServices(authGroup)
	s.AddTicketServices(authGroup)
	s.AddUserServices(authGroup)
	s.AddAnalyticsServices(authGroup)

	// Version endpoint
	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version": version,
			"sign_up": cfg.SignUpEnable,
		})
	})

	// Health endpoint
	apiGroup.GET("_health/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Front handler
	if cfg.FrontFilesPath != "" {
		slog.Info("Start front routing")
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  cfg.FrontFilesPath,
			HTML5: true,
		}))
	}

	// Prometheus metrics
	if !cfg.MetricsDisabled {
		go func() {
			bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "aiboard",
				Name:      "boot_time",
				Help:      "Server startup time",
			})
			bootTimeGauge.Set(float64(time.Now().UnixMilli()))

			if err := prometheus.Register(bootTimeGauge); err != nil {
				slog.Error("Register boot time gauge", "err", err)
				os.Exit(1)
			}

			metrics := echo.New()
			metrics.HideBanner = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			if err := metrics.Start(":2112"); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server fail", "err", err)
			}
		}()
	}

	if err := e.Start(":8080"); err != nil {
		slog.Error("Server fail", "err", err)
	}
}

// Проверка email на корректность
func ValidateEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// Проверка хешированого пароля
func checkPassword(password string, pass string) bool {
	ss := strings.Split(pass, "$")
	if len(ss) == 4 {
		if base64.StdEncoding.EncodeToString(pbkdf2.Key([]byte(password), []byte(ss[2]), 260000, 32, sha256.New)) == ss[3] {
			return true
		} else {
			return false
		}
	}

	return false
}

// Генерация ключа доступа
func createAccessToken(userId uuid.UUID) (*Token, *Token, error) {
	ta, err := GenJwtToken([]byte(cfg.SecretKey), "access", userId.String())
	if err != nil {
		return nil, nil, err
	}

	tr, err := GenJwtToken([]byte(cfg.SecretKey), "refresh", userId.String())
	if err != nil {
		return nil, nil, err
	}
	return ta, tr, err
}

func setAuthCookies(c echo.Context, accessToken *Token, refreshToken *Token) {
	accessCookie := new(http.Cookie)
	accessCookie.Name = "access_token"
	accessCookie.Value = accessToken.SignedString
	accessCookie.HttpOnly = true
	accessCookie.Secure = true
	accessCookie.Path = "/"
	accessCookie.SameSite = http.SameSiteNoneMode
	accessCookie.Expires = time.Now().Add(types.TokenExpiresPeriod)
	c.SetCookie(accessCookie)

	refreshCookie := new(http.Cookie)
	refreshCookie.Name = "refresh_token"
	refreshCookie.Value = refreshToken.SignedString
	refreshCookie.HttpOnly = true
	refreshCookie.Secure = true
	refreshCookie.Path = "/"
	refreshCookie.SameSite = http.SameSiteNoneMode
	refreshCookie.Expires = time.Now().Add(types.RefreshTokenExpiresPeriod)
	c.SetCookie(refreshCookie)
}

func clearAuthCookies(c echo.Context) {
	accessCookie := new(http.Cookie)
	accessCookie.Name = "access_token"
	accessCookie.Value = ""
	accessCookie.HttpOnly = true
	accessCookie.Secure = true
	accessCookie.Path = "/"
	accessCookie.SameSite = http.SameSiteNoneMode
	accessCookie.MaxAge = -1
	c.SetCookie(accessCookie)

	refreshCookie := new(http.Cookie)
	refreshCookie.Name = "refresh_token"
	refreshCookie.Value = ""
	refreshCookie.HttpOnly = true
	refreshCookie.Secure = true
	refreshCookie.Path = "/"
	refreshCookie.SameSite = http.SameSiteNoneMode
	refreshCookie.MaxAge = -1
	c.SetCookie(refreshCookie)
}

type Token struct {
	JWT          *jwt.Token
	SignedString string
	Type         string
}

// Генерация JWT ключа
func GenJwtToken(secret []byte, tokenType string, userid string) (*Token, error) {
	u, _ := uuid.NewV4()
	claims := jwt.MapClaims{
		"exp":        jwt.NewNumericDate(time.Now().Add(types.TokenExpiresPeriod)),
		"iat":        jwt.NewNumericDate(time.Now()),
		"jti":        fmt.Sprintf("%x", u),
		"token_type": tokenType,
		"user_id":    userid,
	}
	if tokenType == "refresh" {
		claims["exp"] = jwt.NewNumericDate(time.Now().Add(types.RefreshTokenExpiresPeriod))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString(secret)
	if err != nil {
		return nil, err
	}

	// Waiting for PR https://github.com/golang-jwt/jwt/pull/417
	sigStr := signedString[strings.LastIndex(signedString, ".")+1:]
	sig, err := base64.RawURLEncoding.DecodeString(sigStr)
	if err != nil {
		return nil, err
	}
	token.Signature = sig

	return &Token{
		JWT:          token,
		SignedString: signedString,
		Type:         tokenType,
	}, nil
}

// BindData привязывает JSON тело запроса к структуре с указательными полями
// и возвращает json-имена реально переданных полей. Позволяет отличать
// отсутствующее поле от переданного нулевого значения при частичном обновлении.
func BindData(c echo.Context, target interface{}) ([]string, error) {
	if err := c.Bind(target); err != nil {
		return nil, fmt.Errorf("failed to bind data from JSON body: %w", err)
	}

	val := reflect.ValueOf(target).Elem()
	typ := val.Type()

	var fields []string
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tagName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tagName == "" || tagName == "-" {
			continue
		}

		if val.Field(i).Kind() == reflect.Ptr && val.Field(i).IsNil() {
			continue
		}
		fields = append(fields, tagName)
	}
	return fields, nil
}

func getUserIdFromJWT(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", errors.New("malformed token")
	}
	d, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(d, &payload); err != nil {
		return "", err
	}
	id, ok := payload["user_id"].(string)
	if !ok {
		return "", errors.New("no user id in token")
	}
	return id, nil
}
