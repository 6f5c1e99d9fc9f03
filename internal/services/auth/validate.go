package services

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// Тексты ошибок формы регистрации.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgUsernameTaken      = "Username already in use"
	MsgEmailTaken         = "Email already in use"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 8 characters long"
	MsgPasswordTooLong    = "Password must be at most 72 bytes long"
)

// dateLayout формат даты в формах.
const dateLayout = "2006-01-02"

// ValidationError список ошибок формы, которые показываются пользователю.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// в v9 нет встроенной проверки даты
	_ = v.RegisterValidation("date", isDate)
	return v
}

func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

// validateStruct возвращает сообщения об ошибках в порядке полей структуры.
func (s *AuthService) validateStruct(in any) []string {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "eqfield":
		return MsgPasswordMismatch
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "oneof":
		if fe.Field() == "gender" {
			return fmt.Sprintf("gender must be one of: %s %s", models.GenderMale, models.GenderFemale)
		}
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		if fe.Field() == "password" {
			return MsgPasswordTooShort
		}
		return fmt.Sprintf("%s is too short", fe.Field())
	case "max":
		if fe.Field() == "password" {
			return MsgPasswordTooLong
		}
		return fmt.Sprintf("%s is too long", fe.Field())
	default:
		return fmt.Sprintf("%s is not valid", fe.Field())
	}
}
