package auth

import "errors"

var (
	// ErrInvalidCredentials возвращается и для неизвестной почты, и для неверного пароля.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPendingApproval возвращается студенту, учётную запись которого ещё не подтвердил администратор.
	ErrPendingApproval = errors.New("your account is pending approval by an administrator")
	// ErrValidation — общий признак ошибки проверки данных формы.
	ErrValidation = errors.New("validation failed")
	// ErrTooManyAttempts возвращается, если превышен лимит попыток входа.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
	// ErrNotAuthenticated возвращается операциями, которым нужна активная сессия.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Тексты причин, которые видит пользователь.
const (
	ReasonRequired         = "please fill in all required fields"
	ReasonInvalidEmail     = "please enter a valid email address"
	ReasonWeakPassword     = "password must be at least 8 characters long and contain at least one letter and one number"
	ReasonPasswordMismatch = "passwords do not match"
	ReasonEmailTaken       = "a user with this email already exists"
)

// ValidationError описывает первую не пройденную проверку формы.
// errors.Is(err, ErrValidation) истинно для любой ValidationError,
// Err (если задана) доступна через errors.Unwrap.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is сопоставляет ValidationError с ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
