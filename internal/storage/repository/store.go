// Package repository — хранилище записей дашборда: пользователи, записи на
// консультации и сообщения поверх key-value хранилища.
//
// Каждая коллекция лежит целиком под своим ключом (см. storage.Collection).
// Отсутствие записи возвращается флагом found, а не ошибкой.
package repository

import (
	"time"

	"github.com/magabrotheeeer/appointment-desk/internal/lib/id"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/password"
	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

// Storage предоставляет операции над коллекциями.
type Storage struct {
	backend storage.Backend
	hasher  password.Hasher
	newID   func() string
	now     func() time.Time

	users        *storage.Collection[models.User]
	appointments *storage.Collection[models.Appointment]
	messages     *storage.Collection[models.Message]
}

// Option настраивает Storage.
type Option func(*Storage)

// WithIDFunc подменяет генератор идентификаторов.
func WithIDFunc(fn func() string) Option {
	return func(s *Storage) { s.newID = fn }
}

// WithClock подменяет источник текущего времени.
func WithClock(fn func() time.Time) Option {
	return func(s *Storage) { s.now = fn }
}

// WithObserver регистрирует функцию, вызываемую после каждой записи коллекции.
func WithObserver(fn func(key string)) Option {
	return func(s *Storage) {
		s.users.OnWrite(fn)
		s.appointments.OnWrite(fn)
		s.messages.OnWrite(fn)
	}
}

// New создаёт Storage поверх backend.
func New(backend storage.Backend, hasher password.Hasher, opts ...Option) *Storage {
	s := &Storage{
		backend:      backend,
		hasher:       hasher,
		newID:        id.New,
		now:          time.Now,
		users:        storage.NewCollection[models.User](backend, storage.KeyUsers),
		appointments: storage.NewCollection[models.Appointment](backend, storage.KeyAppointments),
		messages:     storage.NewCollection[models.Message](backend, storage.KeyMessages),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hasher возвращает хэшер паролей, которым пользуется хранилище.
func (s *Storage) Hasher() password.Hasher {
	return s.hasher
}

// Close закрывает нижележащее хранилище.
func (s *Storage) Close() error {
	return s.backend.Close()
}

func (s *Storage) timestamp() time.Time {
	return s.now().UTC()
}
