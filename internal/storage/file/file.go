// Package file реализует key-value хранилище в каталоге на диске:
// каждое значение лежит в отдельном файле <key>.json.
//
// Запись атомарна (временный файл + rename), а Lock сериализует
// чтение‑изменение‑запись между процессами через flock(2).
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

const lockRetryDelay = 20 * time.Millisecond

// Storage — файловое хранилище.
type Storage struct {
	dir         string
	lockTimeout time.Duration
}

// New создаёт каталог dir (если его нет) и возвращает хранилище.
// lockTimeout ограничивает ожидание блокировки, 0 — ждать, пока жив ctx.
func New(dir string, lockTimeout time.Duration) (*Storage, error) {
	const op = "storage.file.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{dir: dir, lockTimeout: lockTimeout}, nil
}

// Dir возвращает каталог хранилища.
func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) path(key, ext string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+ext), nil
}

// Get читает значение. Отсутствующий файл — found=false.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.file.Get"
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.path(key, ".json")
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return string(data), true, nil
}

// Set атомарно заменяет значение.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.file.Set"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.path(key, ".json")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет значение. Отсутствующий файл не является ошибкой.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.file.Delete"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.path(key, ".json")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Lock берёт эксклюзивную файловую блокировку ключа.
func (s *Storage) Lock(ctx context.Context, key string) (func(), error) {
	const op = "storage.file.Lock"
	p, err := s.path(key, ".lock")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	fl := flock.New(p)
	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %s: %w", op, key, storage.ErrLockTimeout)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %s: %w", op, key, storage.ErrLockTimeout)
	}
	return func() {
		_ = fl.Unlock()
	}, nil
}

// Close ничего не делает: файлы не держатся открытыми.
func (s *Storage) Close() error {
	return nil
}
