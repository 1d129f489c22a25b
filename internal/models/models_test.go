package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	tests := []struct {
		role         Role
		valid        bool
		autoApproved bool
	}{
		{RoleAdmin, true, true},
		{RoleTeacher, true, true},
		{RoleStudent, true, false},
		{Role("guest"), false, false},
		{Role(""), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.autoApproved, tt.role.AutoApproved())
		})
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	for _, s := range AppointmentStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, AppointmentStatus("rescheduled").Valid())
}

func TestHasParticipant(t *testing.T) {
	a := Appointment{StudentID: "s", TeacherID: "t"}
	assert.True(t, a.HasParticipant("s"))
	assert.True(t, a.HasParticipant("t"))
	assert.False(t, a.HasParticipant("x"))

	m := Message{SenderID: "a", RecipientID: "b"}
	assert.True(t, m.HasParticipant("a"))
	assert.True(t, m.HasParticipant("b"))
	assert.False(t, m.HasParticipant("c"))
}

func TestUserJSONFieldNames(t *testing.T) {
	u := User{
		ID:        "1",
		Role:      RoleStudent,
		Email:     "s@x.com",
		StudentID: "ST001",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(u)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "ST001", raw["studentId"])
	assert.Equal(t, "2024-01-01T00:00:00Z", raw["createdAt"])
	assert.NotContains(t, raw, "subjects")
}

func TestNewSession(t *testing.T) {
	u := User{ID: "1", Name: "Jane", Email: "j@x.com", Role: RoleStudent, Approved: true, Password: "hash"}
	s := NewSession(u)
	assert.Equal(t, Session{ID: "1", Name: "Jane", Email: "j@x.com", Role: RoleStudent, Approved: true}, s)
}
