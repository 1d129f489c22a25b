package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

// ErrMalformedSession возвращается, если сохранённую сессию не удалось разобрать.
var ErrMalformedSession = errors.New("malformed persisted session")

// SessionStore хранит снимок текущей сессии под ключом auth_session.
type SessionStore struct {
	backend storage.Backend
}

// NewSessionStore создаёт SessionStore поверх backend.
func NewSessionStore(backend storage.Backend) *SessionStore {
	return &SessionStore{backend: backend}
}

// Load читает сохранённую сессию. found=false, если сессии нет.
func (s *SessionStore) Load(ctx context.Context) (models.Session, bool, error) {
	const op = "storage.SessionStore.Load"
	raw, found, err := s.backend.Get(ctx, storage.KeySession)
	if err != nil {
		return models.Session{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found || raw == "" || raw == "null" {
		return models.Session{}, false, nil
	}
	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return models.Session{}, false, fmt.Errorf("%s: %w: %w", op, ErrMalformedSession, err)
	}
	return session, true, nil
}

// Save перезаписывает сохранённую сессию.
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	const op = "storage.SessionStore.Save"
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.backend.Set(ctx, storage.KeySession, string(data)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет сохранённую сессию.
func (s *SessionStore) Clear(ctx context.Context) error {
	const op = "storage.SessionStore.Clear"
	if err := s.backend.Delete(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
