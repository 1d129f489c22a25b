// Package models содержит доменные модели дашборда записи на консультации:
// пользователей, записи (appointments), сообщения и снимок текущей сессии.
// Имена JSON‑полей совпадают с форматом, в котором коллекции хранятся
// в key-value хранилище.
package models

import "time"

// Role — роль пользователя в системе.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// AutoApproved сообщает, подтверждается ли учётная запись с этой ролью
// сразу при создании. Студенты ждут подтверждения администратора.
func (r Role) AutoApproved() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID         string    `json:"id"`                   // Уникальный идентификатор
	Role       Role      `json:"role"`                 // admin, teacher или student
	Name       string    `json:"name"`                 // Отображаемое имя
	Email      string    `json:"email"`                // Электронная почта (уникальная)
	Password   string    `json:"password"`             // Хэш пароля
	Phone      string    `json:"phone"`                // Телефон
	Approved   bool      `json:"approved"`             // Подтверждён ли администратором
	Department string    `json:"department,omitempty"` // Кафедра (teacher, student)
	Subjects   []string  `json:"subjects,omitempty"`   // Предметы (teacher)
	StudentID  string    `json:"studentId,omitempty"`  // Номер студенческого (student)
	CreatedAt  time.Time `json:"createdAt"`
}

// UserPatch описывает частичное обновление пользователя.
// Поля со значением nil не изменяются. Password содержит пароль в открытом
// виде и хэшируется хранилищем перед записью.
type UserPatch struct {
	Role       *Role
	Name       *string
	Email      *string
	Password   *string
	Phone      *string
	Approved   *bool
	Department *string
	Subjects   []string
	StudentID  *string
}
