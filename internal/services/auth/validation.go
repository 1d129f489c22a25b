package auth

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z0-9@$!%*#?&]{8,}$`)
)

// RegisterRequest — данные формы регистрации студента.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,desk_email"`
	Password        string `json:"password" validate:"required,desk_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	StudentID       string `json:"studentId" validate:"required"`
	Department      string `json:"department" validate:"required"`
	Phone           string `json:"phone"`
}

// Порядок проверок: первая не пройденная определяет причину.
var checkOrder = []struct {
	tag    string
	reason string
}{
	{"required", ReasonRequired},
	{"desk_email", ReasonInvalidEmail},
	{"desk_password", ReasonWeakPassword},
	{"eqfield", ReasonPasswordMismatch},
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Ошибка возможна только для пустого имени тега или nil-функции.
	_ = v.RegisterValidation("desk_email", func(fl validator.FieldLevel) bool {
		return validEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("desk_password", func(fl validator.FieldLevel) bool {
		return validPassword(fl.Field().String())
	})
	return v
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validPassword: не короче 8 символов из допустимого набора,
// хотя бы одна латинская буква и одна цифра.
func validPassword(p string) bool {
	if !passwordPattern.MatchString(p) {
		return false
	}
	return strings.ContainsAny(p, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
		strings.ContainsAny(p, "0123456789")
}

// CheckPassword применяет к паролю правила формы регистрации.
func CheckPassword(p string) error {
	if !validPassword(p) {
		return &ValidationError{Reason: ReasonWeakPassword}
	}
	return nil
}

// validateRegistration прогоняет теги формы и сводит ошибки к одной причине.
func validateRegistration(v *validator.Validate, req RegisterRequest) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.Tag()] = true
	}
	for _, check := range checkOrder {
		if failed[check.tag] {
			return &ValidationError{Reason: check.reason, Err: err}
		}
	}
	return &ValidationError{Reason: err.Error(), Err: err}
}
