package models

// Session — денормализованный снимок аутентифицированного пользователя.
// Не является источником истины: изменения роли или подтверждения,
// сделанные после входа, в нём не отражаются.
type Session struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Approved bool   `json:"approved"`
	Token    string `json:"token,omitempty"` // Подписанный токен сессии, если подпись включена
}

// NewSession строит снимок сессии из записи пользователя.
func NewSession(u User) Session {
	return Session{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Approved: u.Approved,
	}
}
