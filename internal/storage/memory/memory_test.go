package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

var _ storage.Backend = (*Storage)(nil)

func TestStorage_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, found, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "users", "[]"))
	v, found, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Delete(ctx, "users"))
	require.NoError(t, s.Delete(ctx, "users"))
	_, found, err = s.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New()

	_, _, err := s.Get(ctx, "users")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, "users", "[]"), context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "users"), context.Canceled)
}
