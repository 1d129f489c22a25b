package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/appointment-desk/internal/config"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

var _ storage.Backend = (*Storage)(nil)

func setupTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		Addr:      mr.Addr(),
		KeyPrefix: "desk:",
	}

	s, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestSetAndGet(t *testing.T) {
	s, mr := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users", `[{"id":"1"}]`))

	val, found, err := s.Get(ctx, "users")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, val)

	raw, err := mr.Get("desk:users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, raw)
	assert.Equal(t, time.Duration(0), mr.TTL("desk:users"))
}

func TestGetNotFound(t *testing.T) {
	s, _ := setupTestStorage(t)

	val, found, err := s.Get(context.Background(), "no_such_key")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)
}

func TestDelete(t *testing.T) {
	s, mr := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_session", `{"id":"1"}`))
	require.NoError(t, s.Delete(ctx, "auth_session"))
	require.NoError(t, s.Delete(ctx, "auth_session"))

	assert.False(t, mr.Exists("desk:auth_session"))
	_, found, err := s.Get(ctx, "auth_session")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBackendError(t *testing.T) {
	s, mr := setupTestStorage(t)
	mr.SetError("server down")

	_, _, err := s.Get(context.Background(), "users")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "users", "[]"))
}

func TestCollectionOverRedis(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()
	c := storage.NewCollection[string](s, storage.KeyMessages)

	require.NoError(t, c.Mutate(ctx, func(items []string) ([]string, error) {
		return append(items, "hello"), nil
	}))
	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, items)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	}

	s, err := InitServer(context.Background(), cfg)
	assert.Nil(t, s)
	assert.Error(t, err)
}
