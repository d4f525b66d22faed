// Пакет содержит определения ошибок, используемых в приложении AIBoard для
// обработки ситуаций, возникающих при работе с базой данных и пользовательским
// интерфейсом. Каждая ошибка имеет код, статус HTTP и описание, что позволяет
// удобно обрабатывать исключения и предоставлять информативные сообщения
// пользователю.
//
// Основные возможности:
//   - Определение типов ошибок, связанных с авторизацией, спринтами, тикетами и пользователями.
//   - Предоставление кодов ошибок, соответствующих кодам HTTP статусов.
//   - Включение сообщений об ошибках для удобной обработки и отображения пользователю.
package apierrors

import (
	"net/http"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - auth errors
	ErrFailedLogin              = DefinedError{Code: 1001, StatusCode: http.StatusUnauthorized, Err: "invalid credentials", RuErr: "Неправильный email или пароль"}
	ErrLoginCredentialsRequired = DefinedError{Code: 1002, StatusCode: http.StatusUnauthorized, Err: "both email and password are required", RuErr: "Поля email и пароль не могут быть пустыми"}
	ErrAccessTokenRequired      = DefinedError{Code: 1003, StatusCode: http.StatusUnauthorized, Err: "access token is required", RuErr: "Требуется токен доступа"}
	ErrRefreshTokenRequired     = DefinedError{Code: 1004, StatusCode: http.StatusUnauthorized, Err: "refresh token is required", RuErr: "Требуется токен обновления"}
	ErrTokenExpired             = DefinedError{Code: 1005, StatusCode: http.StatusUnauthorized, Err: "token expired", RuErr: "Срок действия токена истек"}
	ErrTokenInvalid             = DefinedError{Code: 1006, StatusCode: http.StatusUnauthorized, Err: "invalid token", RuErr: "Неверный токен"}
	ErrNotAuthenticated         = DefinedError{Code: 1007, StatusCode: http.StatusUnauthorized, Err: "not authenticated", RuErr: "Требуется авторизация"}
	ErrSignupDisabled           = DefinedError{Code: 1008, StatusCode: http.StatusForbidden, Err: "sign up disabled", RuErr: "Регистрация отключена администратором"}

	// 2*** - sprint errors
	ErrSprintNotFound        = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "sprint not found", RuErr: "Спринт не найден"}
	ErrSprintBadRequest      = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "bad sprint request", RuErr: "Некорректный запрос спринта"}
	ErrSprintRequestValidate = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "sprint validation failed", RuErr: "Указаны некорректные параметры спринта"}
	ErrSprintNameRequired    = DefinedError{Code: 2004, StatusCode: http.StatusBadRequest, Err: "sprint must have a name", RuErr: "Поле Имя спринта не может быть пустым"}
	ErrSprintBadStatus       = DefinedError{Code: 2005, StatusCode: http.StatusBadRequest, Err: "unknown sprint status", RuErr: "Указан неизвестный статус спринта"}
	ErrSprintBadDateRange    = DefinedError{Code: 2006, StatusCode: http.StatusBadRequest, Err: "sprint end date must be after start date", RuErr: "Дата окончания спринта должна быть позже даты начала"}
	ErrNoActiveSprint        = DefinedError{Code: 2007, StatusCode: http.StatusNotFound, Err: "no active sprint", RuErr: "Активный спринт отсутствует"}

	// 3*** - ticket errors
	ErrTicketNotFound        = DefinedError{Code: 3001, StatusCode: http.StatusNotFound, Err: "ticket not found", RuErr: "Тикет не найден"}
	ErrTicketBadRequest      = DefinedError{Code: 3002, StatusCode: http.StatusBadRequest, Err: "bad ticket request", RuErr: "Некорректный запрос тикета"}
	ErrTicketRequestValidate = DefinedError{Code: 3003, StatusCode: http.StatusBadRequest, Err: "ticket validation failed", RuErr: "Указаны некорректные параметры тикета"}
	ErrTicketBadStatus       = DefinedError{Code: 3004, StatusCode: http.StatusBadRequest, Err: "unknown ticket status", RuErr: "Указан неизвестный статус тикета"}
	ErrTicketTitleRequired   = DefinedError{Code: 3005, StatusCode: http.StatusBadRequest, Err: "ticket must have a title", RuErr: "Поле Заголовок тикета не может быть пустым"}

	// 4*** - user errors
	ErrUserNotFound      = DefinedError{Code: 4001, StatusCode: http.StatusNotFound, Err: "user not found", RuErr: "Пользователь не найден"}
	ErrUserBadRequest    = DefinedError{Code: 4002, StatusCode: http.StatusBadRequest, Err: "bad user request", RuErr: "Некорректный запрос пользователя"}
	ErrUserBadRole       = DefinedError{Code: 4003, StatusCode: http.StatusBadRequest, Err: "unknown user role", RuErr: "Указана неизвестная роль пользователя"}
	ErrUserAlreadyExist  = DefinedError{Code: 4004, StatusCode: http.StatusConflict, Err: "user already exists", RuErr: "Пользователь с указанным email уже зарегистрирован в системе"}
	ErrUserEmailInvalid  = DefinedError{Code: 4005, StatusCode: http.StatusBadRequest, Err: "invalid email", RuErr: "Указан некорректный email"}
	ErrPasswordTooShort  = DefinedError{Code: 4006, StatusCode: http.StatusBadRequest, Err: "password is too short", RuErr: "Пароль слишком короткий"}
	ErrUserNameRequired  = DefinedError{Code: 4007, StatusCode: http.StatusBadRequest, Err: "user must have a name", RuErr: "Поле Имя пользователя не может быть пустым"}
	ErrNotEnoughRights   = DefinedError{Code: 4008, StatusCode: http.StatusForbidden, Err: "not enough rights", RuErr: "У вас недостаточно прав для выполнения этого действия"}

	// 9*** - general errors
	ErrGeneric       = DefinedError{Code: 9001, StatusCode: http.StatusBadRequest, Err: "request error", RuErr: "Ошибка запроса"}
	ErrEntityToLarge = DefinedError{Code: 9002, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large", RuErr: "Превышен допустимый размер запроса"}
)
