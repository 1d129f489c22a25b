package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.LoginAttempt(OutcomeSuccess)
	m.LoginAttempt(OutcomeInvalidCredentials)
	m.LoginAttempt(OutcomeInvalidCredentials)
	m.Registration()
	m.StoreWrite("users")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeInvalidCredentials)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("users")))

	expected := `
# HELP desk_registrations_total Successful student registrations.
# TYPE desk_registrations_total counter
desk_registrations_total 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "desk_registrations_total"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.StoreWrite("messages")

	path := filepath.Join(t.TempDir(), "desk.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `desk_store_writes_total{collection="messages"} 1`)
}
