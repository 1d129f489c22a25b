// Package memory реализует key-value хранилище в памяти процесса.
// Используется в тестах и для запусков без сохранения данных.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Storage — потокобезопасная map строк.
type Storage struct {
	mu   sync.RWMutex
	data map[string]string
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{data: make(map[string]string)}
}

// Get возвращает значение по ключу.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.memory.Get"
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set сохраняет значение по ключу.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.memory.Set"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.memory.Delete"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close ничего не делает.
func (s *Storage) Close() error {
	return nil
}
