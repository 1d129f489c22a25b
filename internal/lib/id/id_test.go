package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		got := New()
		_, dup := seen[got]
		require.False(t, dup, "duplicate id %s", got)
		seen[got] = struct{}{}
	}
}

func TestNew_TimeOrderedV7(t *testing.T) {
	first := New()
	second := New()

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Less(t, first, second)
}
