package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Collection хранит срез записей T целиком под одним ключом Backend.
//
// Модель согласованности: Load и Save работают со всей коллекцией.
// Mutate сериализует чтение‑изменение‑запись внутри процесса мьютексом,
// а между процессами через Locker, если хранилище его реализует.
// Без Locker побеждает последняя запись.
type Collection[T any] struct {
	backend Backend
	key     string
	mu      sync.Mutex
	onWrite func(key string)
}

// NewCollection создаёт коллекцию поверх ключа key.
func NewCollection[T any](backend Backend, key string) *Collection[T] {
	return &Collection[T]{backend: backend, key: key}
}

// OnWrite регистрирует функцию, вызываемую после каждой успешной записи.
func (c *Collection[T]) OnWrite(fn func(key string)) {
	c.onWrite = fn
}

// Key возвращает ключ коллекции.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load читает всю коллекцию. Отсутствующий ключ — пустая коллекция.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	const op = "storage.Collection.Load"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, found, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, c.key, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save перезаписывает коллекцию целиком.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	const op = "storage.Collection.Save"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, c.key, err)
	}
	if err := c.backend.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("%s: %s: %w", op, c.key, err)
	}
	if c.onWrite != nil {
		c.onWrite(c.key)
	}
	return nil
}

// Mutate читает коллекцию, передаёт её в fn и записывает результат.
// Если fn вернула ошибку, запись не выполняется и ошибка возвращается как есть,
// кроме ErrSkipWrite, которая означает отсутствие изменений.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	const op = "storage.Collection.Mutate"
	c.mu.Lock()
	defer c.mu.Unlock()

	if locker, ok := c.backend.(Locker); ok {
		unlock, err := locker.Lock(ctx, c.key)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, c.key, err)
		}
		defer unlock()
	}

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if errors.Is(err, ErrSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.Save(ctx, updated)
}
