package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

var (
	_ storage.Backend = (*Storage)(nil)
	_ storage.Locker  = (*Storage)(nil)
)

// setupTestDatabase поднимает контейнер PostgreSQL и возвращает строку подключения.
func setupTestDatabase(t *testing.T) string {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestStorage_Integration(t *testing.T) {
	connStr := setupTestDatabase(t)
	ctx := context.Background()

	s, err := New(ctx, connStr, 500*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	t.Run("missing key", func(t *testing.T) {
		_, found, err := s.Get(ctx, "users")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set get overwrite delete", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "messages", `[]`))
		require.NoError(t, s.Set(ctx, "messages", `[{"id":"1"}]`))

		v, found, err := s.Get(ctx, "messages")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"1"}]`, v)

		require.NoError(t, s.Delete(ctx, "messages"))
		require.NoError(t, s.Delete(ctx, "messages"))
		_, found, err = s.Get(ctx, "messages")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("advisory lock is exclusive", func(t *testing.T) {
		other, err := New(ctx, connStr, 200*time.Millisecond)
		require.NoError(t, err)
		defer func() { _ = other.Close() }()

		unlock, err := s.Lock(ctx, "users")
		require.NoError(t, err)

		_, err = other.Lock(ctx, "users")
		assert.ErrorIs(t, err, storage.ErrLockTimeout)

		unlock()
		again, err := other.Lock(ctx, "users")
		require.NoError(t, err)
		again()
	})

	t.Run("unlock after lost session closes connection", func(t *testing.T) {
		holder, err := New(ctx, connStr, 200*time.Millisecond)
		require.NoError(t, err)
		defer func() { _ = holder.Close() }()
		holder.DB.SetMaxOpenConns(1)

		unlock, err := holder.Lock(ctx, storage.KeyMessages)
		require.NoError(t, err)

		var terminated bool
		err = s.DB.QueryRowContext(ctx, `
			SELECT pg_terminate_backend(pid) FROM pg_locks
			WHERE locktype = 'advisory' AND granted AND pid <> pg_backend_pid()
			LIMIT 1`).Scan(&terminated)
		require.NoError(t, err)
		require.True(t, terminated)

		unlock()
		assert.Zero(t, holder.DB.Stats().OpenConnections, "broken connection must not return to the pool")

		_, _, err = holder.Get(ctx, storage.KeyMessages)
		require.NoError(t, err)
		again, err := s.Lock(ctx, storage.KeyMessages)
		require.NoError(t, err)
		again()
	})

	t.Run("collection mutate", func(t *testing.T) {
		c := storage.NewCollection[string](s, storage.KeyAppointments)
		require.NoError(t, c.Mutate(ctx, func(items []string) ([]string, error) {
			return append(items, "a"), nil
		}))
		items, err := c.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, items)
	})
}
