// Package storage описывает key-value хранилище, поверх которого работают
// коллекции пользователей, записей и сообщений, а также сессия.
//
// Хранилище поддерживает только чтение и запись значения целиком по ключу,
// поэтому любая мутация коллекции читает её полностью, изменяет в памяти
// и записывает обратно (см. Collection).
package storage

import (
	"context"
	"errors"
)

// Ключи, под которыми лежат коллекции и сессия.
const (
	KeyUsers         = "users"
	KeyAppointments  = "appointments"
	KeyMessages      = "messages"
	KeySession       = "auth_session"
	KeyLoginAttempts = "login_attempts"
)

var (
	// ErrSkipWrite возвращает функция, переданная в Mutate, если коллекция
	// не изменилась. Mutate тогда не пишет и возвращает nil.
	ErrSkipWrite = errors.New("skip write")
	// ErrDuplicateEmail возвращается при добавлении пользователя с уже занятой почтой.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrEmailConflict возвращается при смене почты на занятую другим пользователем.
	ErrEmailConflict = errors.New("email already in use")
	// ErrInvalidRole возвращается для неизвестной роли пользователя.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidStatus возвращается для неизвестного статуса записи.
	ErrInvalidStatus = errors.New("invalid appointment status")
	// ErrEmptyPassword возвращается при попытке сохранить пустой пароль.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrLockTimeout возвращается, если блокировку ключа не удалось получить вовремя.
	ErrLockTimeout = errors.New("timed out waiting for storage lock")
)

// Backend — минимальное key-value хранилище со строковыми значениями.
// Отсутствие ключа не является ошибкой: Get возвращает found=false.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Locker реализуется хранилищами, которые умеют блокировать ключ
// между процессами. Collection берёт эту блокировку на время
// чтения‑изменения‑записи.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
