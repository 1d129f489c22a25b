// Package redis реализует key-value хранилище поверх Redis.
// Значения коллекций лежат строками под ключами с общим префиксом.
// Блокировка между процессами не поддерживается: побеждает последняя запись.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/appointment-desk/internal/config"
)

// Storage — хранилище в Redis.
type Storage struct {
	Db     *redis.Client
	prefix string
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Storage, error) {
	const op = "storage.redis.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{Db: db, prefix: cfg.KeyPrefix}, nil
}

func (s *Storage) key(key string) string {
	return s.prefix + key
}

// Get возвращает значение по ключу; redis.Nil означает отсутствие ключа.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.redis.Get"
	val, err := s.Db.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}

// Set сохраняет значение без срока жизни.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.redis.Set"
	if err := s.Db.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.redis.Delete"
	if err := s.Db.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *Storage) Close() error {
	return s.Db.Close()
}
