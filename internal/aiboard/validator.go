// Пакет для валидации данных, используемых в AIBoard. Содержит валидаторы для
// различных полей, таких как имя спринта, идентификатор карточки, имя
// пользователя. Использует библиотеку go-playground/validator для выполнения
// проверок, с регулярными выражениями для проверки соответствия формату данных.
//
// Основные возможности:
//   - Валидация различных полей данных с использованием предопределенных валидаторов.
//   - Настройка валидаторов для конкретных полей.
//   - Использование регулярных выражений для проверки формата данных.
package aiboard

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator"
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	err := v.RegisterValidation("boardName", boardNameValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("cardId", cardIdValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("fullName", userFullNameValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("username", usernameValidator)
	if err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		_, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return err
	}
	return nil
}

// boardNameValidator применяется к именам спринтов и тикетов.
func boardNameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinCyrillicDigitWithSymbol(value) {
		return false
	}

	return lenStr >= 1 && lenStr <= 200
}

func cardIdValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidCardId(value) {
		return false
	}
	return lenStr >= 1 && lenStr <= 30
}

func userFullNameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinCyrillicHyphen(value) {
		return false
	}
	return lenStr >= 1 && lenStr <= 100
}

func usernameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinWithSymbols(value) {
		return false
	}
	return lenStr >= 1 && lenStr <= 100
}

// Validate
func isValidLatinCyrillicDigitWithSymbol(str string) bool {
	pt := `^[A-Za-zА-Яа-яёЁ0-9 ._\/\-\\!#\$%&'\"\(\)\*\+,\-.:;№<=>?@\[\\\]\^_\{\|\}~]+$`
	re := regexp.MustCompile(pt)
	return re.MatchString(str)
}

func isValidCardId(str string) bool {
	pt := `^[A-Za-z0-9_-]+$`
	re := regexp.MustCompile(pt)
	return re.MatchString(str)
}

func isValidLatinCyrillicHyphen(str string) bool {
	pt := `^[A-Za-zА-Яа-яёЁ -]+$`
	re := regexp.MustCompile(pt)
	return re.MatchString(str)
}

func isValidLatinWithSymbols(str string) bool {
	pt := `^[A-Za-z0-9._\/\-\\]+$`
	re := regexp.MustCompile(pt)
	return re.MatchString(str)
}
