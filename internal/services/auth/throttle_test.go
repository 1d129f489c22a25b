package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/appointment-desk/internal/storage"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/memory"
)

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		offsets []time.Duration
		want    []bool
	}{
		{
			name:    "burst then deny",
			offsets: []time.Duration{0, 0, 0},
			want:    []bool{true, true, false},
		},
		{
			name:    "token refills",
			offsets: []time.Duration{0, 0, 0, time.Second},
			want:    []bool{true, true, false, true},
		},
		{
			name:    "denied attempts are not stored",
			offsets: []time.Duration{0, 0, 0, 0, time.Second, time.Second},
			want:    []bool{true, true, false, false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := memory.New()
			for i, off := range tt.offsets {
				// Новый throttle на каждую попытку: состояние только в backend.
				th := newLoginThrottle(backend, 1, 2)
				now := start.Add(off)
				th.now = func() time.Time { return now }

				allowed, err := th.allow(ctx)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], allowed, "attempt %d", i+1)
			}
		})
	}
}

func TestLoginThrottle_KeepsLastBurstAttempts(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		th := newLoginThrottle(backend, 1, 3)
		at := now.Add(time.Duration(i) * time.Minute)
		th.now = func() time.Time { return at }
		allowed, err := th.allow(ctx)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	history, err := storage.NewCollection[time.Time](backend, storage.KeyLoginAttempts).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestNewLoginThrottle_Disabled(t *testing.T) {
	assert.Nil(t, newLoginThrottle(memory.New(), 0, 5))
	assert.Nil(t, newLoginThrottle(nil, 1, 5))
}
