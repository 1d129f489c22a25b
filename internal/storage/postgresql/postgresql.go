// Package postgresql реализует key-value хранилище в таблице kv PostgreSQL.
// Схема создаётся миграциями при подключении. Блокировка ключа между
// процессами делается session-level advisory lock на отдельном соединении.
package postgresql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/appointment-desk/internal/migrations"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

const unlockTimeout = 5 * time.Second

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB          *sql.DB
	lockTimeout time.Duration
}

// New подключается к PostgreSQL и применяет миграции.
func New(ctx context.Context, storageConnectionString string, lockTimeout time.Duration) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db, lockTimeout: lockTimeout}, nil
}

// Get возвращает значение по ключу.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.postgresql.Get"
	select {
	case <-ctx.Done():
		return "", false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// Set вставляет или заменяет значение.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.postgresql.Set"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO kv (key, value, updated_at)
			  VALUES ($1, $2, NOW())
			  ON CONFLICT (key) DO UPDATE
			  SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.postgresql.Delete"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Lock берёт pg_advisory_lock по хэшу ключа на выделенном соединении.
// Блокировка принадлежит сессии PostgreSQL этого соединения, поэтому
// unlock либо снимает её и возвращает соединение в пул, либо закрывает
// физическое соединение, и сервер освобождает блокировку вместе с сессией.
func (s *Storage) Lock(ctx context.Context, key string) (func(), error) {
	const op = "storage.postgresql.Lock"

	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	conn, err := s.DB.Conn(lockCtx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := conn.ExecContext(lockCtx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		discard(conn)
		if ctx.Err() == nil && errors.Is(lockCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %s: %w", op, key, storage.ErrLockTimeout)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		var released bool
		err := conn.QueryRowContext(unlockCtx, `SELECT pg_advisory_unlock(hashtext($1))`, key).Scan(&released)
		if err != nil || !released {
			discard(conn)
			return
		}
		_ = conn.Close()
	}, nil
}

// discard закрывает физическое соединение вместо возврата в пул.
func discard(conn *sql.Conn) {
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = conn.Close()
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
